package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// GeneratePickupQR encodes the deep link the delivery runner scans at
// handover. Returned as a PNG.
func GeneratePickupQR(requestID string) ([]byte, error) {
	return qrcode.Encode("farmbasket://request/"+requestID, qrcode.Medium, 256)
}

// GeneratePickupQRDataURI is the same QR ready to drop into an <img src>.
func GeneratePickupQRDataURI(requestID string) (string, error) {
	png, err := GeneratePickupQR(requestID)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// RenderRequestSummaryPDF loads the frontend's printable summary page in
// headless Chrome and prints it. frontendURL looks like
// http://localhost:3000/request-summary
func RenderRequestSummaryPDF(frontendURL, requestID, qrDataURI string) ([]byte, error) {
	q := url.Values{}
	q.Set("id", requestID)
	q.Set("qr", qrDataURI)

	fullURL := fmt.Sprintf("%s?%s", frontendURL, q.Encode())

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(fullURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}
