package storage

import (
	"errors"
	"net/http"
	"testing"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
)

func httpResponseError(status int) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{
			Response: &http.Response{StatusCode: status},
		},
		Err: errors.New("request failed"),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "api access denied",
			err:  &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"},
			want: KindPermission,
		},
		{
			name: "api bad signature",
			err:  &smithy.GenericAPIError{Code: "SignatureDoesNotMatch", Message: "bad signature"},
			want: KindPermission,
		},
		{
			name: "api no such key",
			err:  &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist"},
			want: KindNotFound,
		},
		{
			name: "api throttled",
			err:  &smithy.GenericAPIError{Code: "SlowDown", Message: "Reduce your request rate"},
			want: KindTransient,
		},
		{
			name: "http 403",
			err:  httpResponseError(http.StatusForbidden),
			want: KindPermission,
		},
		{
			name: "http 404",
			err:  httpResponseError(http.StatusNotFound),
			want: KindNotFound,
		},
		{
			name: "http 503",
			err:  httpResponseError(http.StatusServiceUnavailable),
			want: KindTransient,
		},
		{
			name: "substring access denied",
			err:  errors.New("provider said: ACCESS DENIED"),
			want: KindPermission,
		},
		{
			name: "substring not found",
			err:  errors.New("object not found"),
			want: KindNotFound,
		},
		{
			name: "network is transient",
			err:  errors.New("dial tcp 10.0.0.1:443: i/o timeout"),
			want: KindTransient,
		},
		{
			name: "unknown defaults to transient",
			err:  errors.New("malformed response"),
			want: KindTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
