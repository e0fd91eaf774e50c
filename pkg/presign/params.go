package presign

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query parameter names accepted by the presign endpoint.
const (
	QueryKey           = "key"
	QueryContentLength = "content-length"
	QueryNoWait        = "no-wait"
	QueryMaxRequests   = "max-requests"
	QueryExpire        = "expire"
	QueryForceDownload = "force-download"
	QueryLimitRate     = "limit-rate"
)

var truthy = map[string]bool{
	"true": true,
	"1":    true,
	"t":    true,
	"y":    true,
	"yes":  true,
}

// ParseRequest validates a /presigned-url query.
//
// Only key and content-length can fail the request. Every other optional
// parameter that does not parse as a positive integer is dropped silently,
// and expire falls back to DefaultExpiration.
func ParseRequest(q url.Values) (PresignRequest, error) {
	req := PresignRequest{
		Key:     q.Get(QueryKey),
		Expires: DefaultExpiration,
	}
	if req.Key == "" {
		return PresignRequest{}, ErrMissingKey
	}

	if raw := q.Get(QueryContentLength); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > MaxContentLength {
			return PresignRequest{}, ErrInvalidContentLength
		}
		req.ContentLength = n
	}

	if n, ok := positiveInt(q.Get(QueryNoWait)); ok {
		req.NoWait = min(n, MaxNoWait)
	}
	if n, ok := positiveInt(q.Get(QueryMaxRequests)); ok {
		req.MaxRequests = n
	}
	if n, ok := positiveInt(q.Get(QueryLimitRate)); ok {
		req.LimitRate = n
	}
	if n, ok := positiveInt(q.Get(QueryExpire)); ok {
		req.Expires = time.Duration(n) * time.Second
	}

	req.ForceDownload = ParseTruthy(q.Get(QueryForceDownload))

	return req, nil
}

// ParseTruthy reports whether s is one of true, 1, t, y, yes (any case).
func ParseTruthy(s string) bool {
	return truthy[strings.ToLower(s)]
}

// ExtensionParams returns the vendor query parameters to splice into the GET URL.
// The map is empty when no extension applies.
func (r PresignRequest) ExtensionParams() map[string]string {
	params := map[string]string{}

	if r.NoWait > 0 {
		params[ParamNoWait] = strconv.FormatInt(r.NoWait, 10)
	}
	if r.MaxRequests > 0 {
		params[ParamMaxRequests] = strconv.FormatInt(r.MaxRequests, 10)
	}
	if r.LimitRate > 0 {
		params[ParamLimitRate] = strconv.FormatInt(r.LimitRate, 10)
	}
	if r.ForceDownload {
		params[ParamResponseContentDisposition] = "attachment"
	}

	return params
}

// Query renders r back into endpoint query parameters. Absent fields are omitted.
func (r PresignRequest) Query() url.Values {
	q := url.Values{}
	q.Set(QueryKey, r.Key)
	if r.ContentLength > 0 {
		q.Set(QueryContentLength, strconv.FormatInt(r.ContentLength, 10))
	}
	if r.NoWait > 0 {
		q.Set(QueryNoWait, strconv.FormatInt(r.NoWait, 10))
	}
	if r.MaxRequests > 0 {
		q.Set(QueryMaxRequests, strconv.FormatInt(r.MaxRequests, 10))
	}
	if r.LimitRate > 0 {
		q.Set(QueryLimitRate, strconv.FormatInt(r.LimitRate, 10))
	}
	if secs := int64(r.Expires / time.Second); secs > 0 {
		q.Set(QueryExpire, strconv.FormatInt(secs, 10))
	}
	if r.ForceDownload {
		q.Set(QueryForceDownload, "true")
	}
	return q
}

func positiveInt(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
