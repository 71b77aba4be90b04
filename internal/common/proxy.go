package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	OK                     int = 200
	BAD_REQUEST            int = 400
	UNAUTHORIZED           int = 401
	FORBIDDEN              int = 403
	DATA_NOT_FOUND         int = 404
	METHOD_NOT_ALLOWED     int = 405
	UNSUPPORTED_MEDIA_TYPE int = 415
	RATE_LIMIT_EXCEEDED    int = 429
	INTERNAL_SERVER_ERROR  int = 500
	BAD_GATEWAY            int = 502
	SERVICE_UNAVAILABLE    int = 503
	GATEWAY_TIMEOUT        int = 504
)

var messages = map[int]string{
	OK:                     "OK",
	BAD_REQUEST:            "Bad request",
	UNAUTHORIZED:           "Unauthorized",
	FORBIDDEN:              "Forbidden",
	DATA_NOT_FOUND:         "Data not found",
	METHOD_NOT_ALLOWED:     "Method not allowed",
	UNSUPPORTED_MEDIA_TYPE: "Unsupported media type",
	RATE_LIMIT_EXCEEDED:    "Rate limit exceeded",
	INTERNAL_SERVER_ERROR:  "Internal server error",
	BAD_GATEWAY:            "Bad gateway",
	SERVICE_UNAVAILABLE:    "Service unavailable",
	GATEWAY_TIMEOUT:        "Gateway timeout",
}

type Proxy struct {
	header      map[string]string
	client      http.Client
	rateLimiter RateLimiter
	retries     int
	baseDelay   time.Duration
}

func NewProxy(header map[string]string, restrictions []Restriction, timeout time.Duration, retries int, baseDelay time.Duration) Proxy {
	return Proxy{header, http.Client{Timeout: timeout}, NewRateLimiter(restrictions), retries, baseDelay}
}

// Make a GET request to the provided url, indicating if it is vital.
// The request will only be performed if the rate limiter allows it.
// Transport errors and 5xx responses are retried with exponential backoff
// before giving up with a TransientError. 4xx responses are not retried
func (proxy *Proxy) Request(ctx context.Context, url string, vital bool) ([]byte, error) {

	// ask for permission to execute the request
	// and wait if necessary
	if !proxy.rateLimiter.Allowed(vital) {
		log.Warn().Msg("Rate limiter is not allowing the request")
		return nil, &TransientError{Url: url, Err: fmt.Errorf("rejected by rate limiter")}
	}

	var lastErr error
	for attempt := 0; attempt <= proxy.retries; attempt++ {

		if attempt > 0 {
			// Exponential backoff between attempts
			delay := proxy.baseDelay * (1 << (attempt - 1))
			log.Debug().Msg(fmt.Sprintf("Retrying url %s in %v (attempt %d/%d)", url, delay, attempt, proxy.retries))
			select {
			case <-ctx.Done():
				return nil, &TransientError{Url: url, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		data, retryable, err := proxy.requestOnce(ctx, url)
		if err == nil {
			return data, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	log.Error().Msg(fmt.Sprintf("Giving up on url %s after %d retries", url, proxy.retries))
	return nil, lastErr
}

func (proxy *Proxy) requestOnce(ctx context.Context, url string) (data []byte, retryable bool, err error) {

	// Create the request and add the header
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, &PermanentError{Url: url}
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	// Perform the request
	res, err := proxy.client.Do(request)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not perform request to url %s: %v", url, err))
		return nil, true, &TransientError{Url: url, Err: err}
	}
	defer res.Body.Close()

	if message, ok := messages[res.StatusCode]; ok {
		log.Debug().Msg(fmt.Sprintf("%d %s", res.StatusCode, message))
	}

	switch {
	case res.StatusCode == OK:
		stream, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, true, &TransientError{Url: url, Err: err}
		}
		return stream, false, nil
	case res.StatusCode == RATE_LIMIT_EXCEEDED:
		proxy.rateLimiter.ReceivedRateLimit()
		return nil, true, &TransientError{Url: url, Status: res.StatusCode}
	case res.StatusCode >= 500:
		return nil, true, &TransientError{Url: url, Status: res.StatusCode}
	default:
		return nil, false, &PermanentError{Url: url, Status: res.StatusCode}
	}
}
