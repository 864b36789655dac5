package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/telekom-mms/go-it-crypto/pkg/protoerr"
)

func writeJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}

func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, map[string]string{"error": code, "error_description": description})
}

// writeError translates a protocol error into an HTTP response, matching
// the code to a status the way the error taxonomy implies (client input
// problems -> 4xx, unexpected failures -> 500).
func writeError(w http.ResponseWriter, err error) {
	code := protoerr.CodeOf(err)
	status := httpStatus(code)
	if code == "" {
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
		return
	}
	writeJSONError(w, status, string(code), err.Error())
}

func httpStatus(code protoerr.Code) int {
	switch code {
	case protoerr.CodeUnknownUser:
		return http.StatusNotFound
	case protoerr.CodeUnauthorisedMonitor:
		return http.StatusForbidden
	case protoerr.CodeMalformedJwe, protoerr.CodeMalformedSharedLog, protoerr.CodeMalformedAccessLog,
		protoerr.CodeMalformedData, protoerr.CodeNoRecipients, protoerr.CodeBadKey:
		return http.StatusBadRequest
	case protoerr.CodeDecryptionFailed, protoerr.CodeSharedLogSignatureInvalid, protoerr.CodeAccessLogSignatureInvalid:
		return http.StatusUnprocessableEntity
	case protoerr.CodeKeyUnavailable:
		return http.StatusConflict
	case protoerr.CodeSigningFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
