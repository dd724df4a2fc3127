package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient embeds *resty.Client, exposing all of its methods.
//
// Example usage:
//
//	client := utils.NewHTTPClient(5 * time.Second)
//	resp, err := client.R().SetBody(payload).Post("https://hooks.example.com/mail")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a JSON client with the given request timeout that
// retries twice on transport errors and 5xx responses.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(2).
		SetRetryWaitTime(100 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	return &HTTPClient{Client: client}
}
