package scenario

import "github.com/getchaosd/chaosd/pkg/faults"

// outageCodes maps HTTP status to the service-specific error code the real
// cloud API would return for it.
var outageCodes = map[int]map[string]string{
	503: {
		"s3":       "ServiceUnavailable",
		"dynamodb": "ServiceUnavailable",
		"lambda":   "ServiceException",
		"sqs":      "ServiceUnavailable",
		"sns":      "ServiceUnavailable",
	},
	500: {
		"s3":       "InternalError",
		"dynamodb": "InternalServerError",
		"lambda":   "ServiceException",
		"sqs":      "InternalError",
		"sns":      "InternalError",
	},
	429: {
		"s3":       "SlowDown",
		"dynamodb": "ProvisionedThroughputExceededException",
		"lambda":   "TooManyRequestsException",
		"sqs":      "ThrottlingException",
		"sns":      "ThrottledException",
	},
}

// OutageCode returns the error code a service reports for the given HTTP
// status, falling back to a generic service exception.
func OutageCode(service string, status int) string {
	if code, ok := outageCodes[status][service]; ok {
		return code
	}
	return "ServiceException"
}

// throttleCodes maps each service to its rate-limiting error code.
var throttleCodes = map[string]string{
	"s3":         "SlowDown",
	"dynamodb":   "ProvisionedThroughputExceededException",
	"lambda":     "TooManyRequestsException",
	"sqs":        "ThrottlingException",
	"sns":        "ThrottledException",
	"kinesis":    "ProvisionedThroughputExceededException",
	"apigateway": "TooManyRequests",
}

// ThrottleCode returns the service-specific throttling error code.
func ThrottleCode(service string) string {
	if code, ok := throttleCodes[service]; ok {
		return code
	}
	return "ThrottlingException"
}

// resourceErrors maps service and resource type to the quota-exhaustion
// error the real API raises.
var resourceErrors = map[string]map[string]faults.ErrorSpec{
	"dynamodb": {
		"throughput": {
			StatusCode: 400,
			Code:       "ProvisionedThroughputExceededException",
			Message:    "The level of configured provisioned throughput for the table was exceeded.",
		},
		"storage": {
			StatusCode: 400,
			Code:       "ResourceInUseException",
			Message:    "Table storage limit exceeded.",
		},
	},
	"lambda": {
		"concurrency": {
			StatusCode: 429,
			Code:       "TooManyRequestsException",
			Message:    "Rate exceeded. Concurrent execution limit reached.",
		},
		"storage": {
			StatusCode: 400,
			Code:       "CodeStorageExceededException",
			Message:    "Maximum code storage exceeded.",
		},
	},
	"s3": {
		"storage": {
			StatusCode: 400,
			Code:       "QuotaExceeded",
			Message:    "Service quota for bucket storage exceeded.",
		},
		"requests": {
			StatusCode: 503,
			Code:       "SlowDown",
			Message:    "Please reduce your request rate.",
		},
	},
	"kinesis": {
		"shards": {
			StatusCode: 400,
			Code:       "LimitExceededException",
			Message:    "Shard limit for the account has been reached.",
		},
		"throughput": {
			StatusCode: 400,
			Code:       "ProvisionedThroughputExceededException",
			Message:    "Rate exceeded for stream.",
		},
	},
}

// ResourceError returns the exhaustion error for a service/resource pair.
func ResourceError(service, resource string) (faults.ErrorSpec, bool) {
	spec, ok := resourceErrors[service][resource]
	return spec, ok
}

// ResourceTypes lists the resource types with an exhaustion error for the
// given service, or nil if the service has none.
func ResourceTypes(service string) []string {
	m, ok := resourceErrors[service]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
