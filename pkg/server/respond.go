package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/loopline/pkg/dsl"
	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/pipeline"
)

// Content types per output format.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure. Line and Column are 1-based and only
// present for errors tied to a source position.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError reports err. src, when set, resolves the error position.
func writeError(w http.ResponseWriter, err error, src string) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	detail := ErrorDetail{Code: string(code), Message: errors.UserMessage(err)}
	if pos := errors.Position(err); pos != errors.NoPos && src != "" {
		detail.Line, detail.Column = dsl.LineCol(src, pos)
	}

	var tooLarge *http.MaxBytesError
	status := statusFor(err)
	if stderrors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
		detail.Code = string(errors.ErrCodeInvalidInput)
		detail.Message = "request body too large"
	}
	writeJSON(w, status, ErrorBody{Error: detail})
}

func statusFor(err error) int {
	if errors.IsLexical(err) || errors.IsSemantic(err) {
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeDegenerate:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
