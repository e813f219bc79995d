package utils

import qrcode "github.com/skip2/go-qrcode"

// QRPNG renders a check-in URL into a scannable PNG image.
func QRPNG(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(url, qrcode.Medium, size)
}
