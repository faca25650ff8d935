package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorKind(t *testing.T) {
	Convey("Given the statuses the handlers write", t, func() {
		cases := map[int]string{
			http.StatusBadRequest:          "client_error",
			http.StatusNotFound:            "not_found",
			http.StatusConflict:            "conflict",
			http.StatusTooManyRequests:     "rate_limit",
			http.StatusServiceUnavailable:  "unavailable",
			http.StatusInternalServerError: "server_error",
			http.StatusMethodNotAllowed:    "client_error",
			http.StatusBadGateway:          "server_error",
			http.StatusOK:                  "unknown",
		}
		for code, kind := range cases {
			So(errorKind(code), ShouldEqual, kind)
		}
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler that answers 409", t, func() {
		h := MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte("taken"))
		}, "founders")

		Convey("Then the status and body pass through unchanged", func() {
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodPost, "/founders", nil))
			So(rec.Code, ShouldEqual, http.StatusConflict)
			So(rec.Body.String(), ShouldEqual, "taken")
		})
	})
}
