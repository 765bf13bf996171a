package receipt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/billed/internal/receipt"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "image.jpg", want: "jpg"},
		{name: "upper case", in: "IMAGE.PNG", want: "png"},
		{name: "last segment wins", in: "scan.png.pdf", want: "pdf"},
		{name: "no dot", in: "receipt", want: "receipt"},
		{name: "bare extension", in: "PNG", want: "png"},
		{name: "trailing dot", in: "receipt.", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, receipt.Extension(tt.in))
		})
	}
}

func TestValidateFileName(t *testing.T) {
	accepted := []string{"image.jpg", "image.jpeg", "image.png", "Photo.JPG", "x.JpEg", "a.b.PNG", "png", "JPEG"}
	for _, name := range accepted {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, receipt.ValidateFileName(name))
		})
	}

	rejected := []string{"document.pdf", "image.gif", "image.jpg.exe", "noextension", "", "file.jpgx", "png.", "jpg.txt"}
	for _, name := range rejected {
		t.Run("reject "+name, func(t *testing.T) {
			assert.ErrorIs(t, receipt.ValidateFileName(name), receipt.ErrUnsupportedExtension)
		})
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "Hotel_deja_vu.png", receipt.SanitizeName("Hôtel déjà vu.png"))
	assert.Equal(t, "a_b_c.jpg", receipt.SanitizeName("a/b\\c.jpg"))
}
