package constants

// Standard Response Field Keys
const (
	ResponseFieldStatusCode = "statusCode"
	ResponseFieldData       = "data"
	ResponseFieldMessage    = "message"
	ResponseFieldErrors     = "errors"

	// List payload fields
	ResponseFieldTotal     = "total"
	ResponseFieldPage      = "page"
	ResponseFieldPageTotal = "page_total"
	ResponseFieldDocs      = "docs"
)

// BuildSuccessResponse wraps data in the uniform success envelope.
func BuildSuccessResponse(statusCode int, data any, message string) map[string]any {
	return map[string]any{
		ResponseFieldStatusCode: statusCode,
		ResponseFieldData:       data,
		ResponseFieldMessage:    message,
	}
}

// BuildErrorResponse wraps a failure in the uniform error envelope. The
// errors slice is omitted when empty.
func BuildErrorResponse(statusCode int, message string, errs ...string) map[string]any {
	response := map[string]any{
		ResponseFieldStatusCode: statusCode,
		ResponseFieldMessage:    message,
	}
	if len(errs) > 0 {
		response[ResponseFieldErrors] = errs
	}
	return response
}

// BuildListPayload shapes a paginated result set for embedding in the
// success envelope's data field.
func BuildListPayload(total int64, page, pageTotal int, docs any) map[string]any {
	return map[string]any{
		ResponseFieldTotal:     total,
		ResponseFieldPage:      page,
		ResponseFieldPageTotal: pageTotal,
		ResponseFieldDocs:      docs,
	}
}
