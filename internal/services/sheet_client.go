package services

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// maxAckSize bounds how much of the acknowledgement body is read.
const maxAckSize = 1 << 20

// ApplicationEndpoint records a submitted application somewhere outside this service.
type ApplicationEndpoint interface {
	Send(ctx context.Context, payload url.Values) (*Acknowledgement, error)
}

type Acknowledgement struct {
	StatusCode int
	Body       []byte
}

// SheetClient posts applications to the spreadsheet script.
type SheetClient struct {
	Endpoint   string
	HTTPClient *http.Client
	Log        *logrus.Entry
}

func NewSheetClient(endpoint string, timeout time.Duration, log *logrus.Logger) *SheetClient {
	return &SheetClient{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        log.WithField("component", "sheet_client"),
	}
}

// Send posts the payload as a url-encoded form. The returned error is always a
// *SubmissionError of kind transport or application.
func (c *SheetClient) Send(ctx context.Context, payload url.Values) (*Acknowledgement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return nil, &SubmissionError{Kind: KindTransport, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &SubmissionError{Kind: KindTransport, Err: errors.Wrap(err, "post application")}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &SubmissionError{
			Kind:       KindTransport,
			StatusCode: res.StatusCode,
			Err:        errors.Errorf("HTTP error! status: %d", res.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxAckSize))
	if err != nil {
		return nil, &SubmissionError{Kind: KindTransport, Err: errors.Wrap(err, "read acknowledgement")}
	}
	c.Log.WithField("status", res.StatusCode).Debugf("acknowledgement: %s", body)

	ack := &Acknowledgement{StatusCode: res.StatusCode, Body: body}
	if !gjson.ValidBytes(body) {
		return ack, &SubmissionError{Kind: KindApplication, Err: errors.New("acknowledgement is not valid JSON")}
	}
	if !Truthy(gjson.GetBytes(body, "ok")) {
		return ack, &SubmissionError{Kind: KindApplication, Err: errors.New("endpoint did not acknowledge the application")}
	}
	return ack, nil
}

// Truthy applies loose boolean coercion to a JSON value: false, 0, NaN, "",
// null and a missing value are false, everything else is true.
func Truthy(v gjson.Result) bool {
	if !v.Exists() {
		return false
	}
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		return true
	}
	return false
}
