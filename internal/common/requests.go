package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// ApiClientWeb is the client identifier the dashboard expects on every
// API form post.
const ApiClientWeb = "WEB"

// CSRFField is the form field carrying the anti-forgery token.
const CSRFField = "csrf"

// NewFormRequest builds a form-encoded request carrying the fields the
// dashboard requires on every authenticated call: the anti-forgery
// token and the api client identifier. Caller fields are merged on
// top.
func NewFormRequest(client *resty.Client, ctx context.Context, csrf string, fields map[string]string) *resty.Request {

	form := map[string]string{
		CSRFField:   csrf,
		"apiClient": ApiClientWeb,
	}
	for k, v := range fields {
		form[k] = v
	}

	return client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetFormData(form)
}

// MakeRequestFromBuilder dispatches a prepared request builder on the
// given HTTP method.
func MakeRequestFromBuilder(restBuilder *resty.Request, method string, finalUrl string) (*resty.Response, error) {

	switch strings.ToUpper(method) {
	case http.MethodGet:
		return restBuilder.Get(finalUrl)
	case http.MethodPost:
		return restBuilder.Post(finalUrl)
	case http.MethodPut:
		return restBuilder.Put(finalUrl)
	case http.MethodDelete:
		return restBuilder.Delete(finalUrl)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s. Ensure you're using the http const", method)
	}

}

// IsJSONResponse reports whether a response declared a JSON content
// type. The dashboard serves HTML error pages on some failures, which
// must not be fed to the envelope decoder.
func IsJSONResponse(resp *resty.Response) bool {
	contentType := resp.Header().Get("Content-Type")
	return strings.Contains(contentType, "application/json") ||
		strings.Contains(contentType, "text/json")
}

// LogResponse emits a debug line for a completed API exchange.
func LogResponse(resp *resty.Response, endpoint string) {
	logrus.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode(),
		"duration": resp.Time(),
	}).Debugln("Completed dashboard API request")
}
