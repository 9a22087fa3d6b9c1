package storage

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// Kind classifies a backend error for reporting. Provider payloads differ
// across S3-compatible services, so this translation happens once here and
// the rest of the tool only sees the fixed taxonomy.
type Kind string

const (
	// KindPermission indicates the credentials may not change the object's ACL
	KindPermission Kind = "permission"
	// KindNotFound indicates the object disappeared between listing and update
	KindNotFound Kind = "not_found"
	// KindTransient indicates a retriable condition: throttling, 5xx, network
	KindTransient Kind = "transient"
)

// Classify normalizes a backend error into the error taxonomy. Anything that
// is not recognizably a permission or not-found condition is treated as
// transient, so a re-run can pick it up.
func Classify(err error) Kind {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "Forbidden", "AllAccessDisabled", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return KindPermission
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return KindNotFound
		case "InternalError", "ServiceUnavailable", "SlowDown", "RequestTimeout":
			return KindTransient
		}
	}

	var httpErr *smithyhttp.ResponseError
	if errors.As(err, &httpErr) {
		switch httpErr.HTTPStatusCode() {
		case http.StatusForbidden, http.StatusUnauthorized:
			return KindPermission
		case http.StatusNotFound:
			return KindNotFound
		}
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "access denied") || strings.Contains(errStr, "forbidden"):
		return KindPermission
	case strings.Contains(errStr, "not found") || strings.Contains(errStr, "no such key"):
		return KindNotFound
	}

	return KindTransient
}
