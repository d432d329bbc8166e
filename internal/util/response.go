package util

type Envelope map[string]any

// Error builds the error body every endpoint returns:
// {"message": ..., "statusCode": ...}.
func Error(message string, statusCode int) Envelope {
	return Envelope{
		"message":    message,
		"statusCode": statusCode,
	}
}

// ValidationFailed is Error plus a per-field errors map.
func ValidationFailed(statusCode int, fields map[string]string) Envelope {
	return Envelope{
		"message":    "Validation error",
		"statusCode": statusCode,
		"errors":     fields,
	}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}
