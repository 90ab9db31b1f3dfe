package apierror

// Error type URIs used as the "type" member of Problem Details responses.
const (
	// TypeValidation: query or body parameters failed validation (400)
	TypeValidation = "urn:yearinmotion:error:validation"

	// TypeBadRequest: malformed request (400)
	TypeBadRequest = "urn:yearinmotion:error:bad_request"

	// TypeUnauthorized: no session was presented (401)
	TypeUnauthorized = "urn:yearinmotion:error:unauthorized"

	// TypeReconnect: the Strava authorization is gone or was rejected (401)
	TypeReconnect = "urn:yearinmotion:error:reconnect"

	// TypeNotFound: the requested resource does not exist (404)
	TypeNotFound = "urn:yearinmotion:error:not_found"

	// TypeMethodNotAllowed: wrong HTTP method for the route (405)
	TypeMethodNotAllowed = "urn:yearinmotion:error:method_not_allowed"

	// TypeMalformedActivity: Strava returned an activity missing required data (422)
	TypeMalformedActivity = "urn:yearinmotion:error:malformed_activity"

	// TypeRateLimit: too many requests (429)
	TypeRateLimit = "urn:yearinmotion:error:rate_limit"

	// TypeInternal: unexpected server error (500)
	TypeInternal = "urn:yearinmotion:error:internal"

	// TypeMisconfigured: the server lacks required configuration (500)
	TypeMisconfigured = "urn:yearinmotion:error:misconfigured"

	// TypeUpstream: Strava failed or returned an unusable response (502)
	TypeUpstream = "urn:yearinmotion:error:upstream"
)

const (
	TitleValidation        = "Validation Error"
	TitleBadRequest        = "Bad Request"
	TitleUnauthorized      = "Authentication Required"
	TitleReconnect         = "Strava Connection Expired"
	TitleNotFound          = "Resource Not Found"
	TitleMethodNotAllowed  = "Method not allowed"
	TitleMalformedActivity = "Malformed Activity Data"
	TitleRateLimit         = "Rate Limit Exceeded"
	TitleInternal          = "Internal Server Error"
	TitleMisconfigured     = "Server configuration error"
	TitleUpstream          = "Upstream Service Error"
)

// Client action hints carried in the "action" member.
const (
	ActionAuthenticate = "authenticate"
	ActionReconnect    = "reconnect"
	ActionRetry        = "retry"
)
