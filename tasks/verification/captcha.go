package verification

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dchest/captcha"
)

const seedLength = 20

// CaptchaOptions sets the size of generated images.
type CaptchaOptions struct {
	Length int
	Width  int
	Height int
}

// NewCaptcha draws a random digit captcha as PNG into w and returns the
// digits it shows.
func NewCaptcha(w io.Writer, opts CaptchaOptions) (string, error) {
	digits := captcha.RandomDigits(opts.Length)
	seed := string(captcha.RandomDigits(seedLength))

	image := captcha.NewImage(seed, digits, opts.Width, opts.Height)
	if _, err := image.WriteTo(w); err != nil {
		return "", fmt.Errorf("failed to render captcha: %w", err)
	}

	var answer strings.Builder
	for _, d := range digits {
		answer.WriteString(strconv.Itoa(int(d)))
	}
	return answer.String(), nil
}
