package http

import (
	"net/http"

	"github.com/dcastellanos/userboard/internal/common/constants"
	"github.com/dcastellanos/userboard/internal/common/httpmetrics"
	"github.com/dcastellanos/userboard/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	csp := ContentSecurityPolicyMiddleware("")

	return SecurityHeadersMiddleware(csp(recovery(TraceIDMiddleware(maxRequestSize(httpmetrics.Wrap(handler))))))
}
