package validation

// Compiled request body schemas. Handlers decode the body into an
// interface{} and validate it before mapping to typed requests.
var (
	ClinicSearchSchema = MustCompile("clinic_search.json", `{
		"type": "object",
		"properties": {
			"location": {"type": "string"},
			"latitude": {"type": "number", "minimum": -90, "maximum": 90},
			"longitude": {"type": "number", "minimum": -180, "maximum": 180},
			"radius": {"type": "number", "minimum": 0},
			"type": {"type": "string"},
			"query": {"type": "string"}
		},
		"additionalProperties": false
	}`)

	ClinicNearbySchema = MustCompile("clinic_nearby.json", `{
		"type": "object",
		"required": ["latitude", "longitude"],
		"properties": {
			"latitude": {"type": "number", "minimum": -90, "maximum": 90},
			"longitude": {"type": "number", "minimum": -180, "maximum": 180},
			"radius": {"type": "number", "exclusiveMinimum": 0},
			"type": {"type": "string"}
		},
		"additionalProperties": false
	}`)

	ClinicCreateSchema = MustCompile("clinic_create.json", `{
		"type": "object",
		"required": ["name", "address", "latitude", "longitude", "category"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"address": {"type": "string", "minLength": 1},
			"latitude": {"type": "string", "minLength": 1},
			"longitude": {"type": "string", "minLength": 1},
			"category": {"type": "string", "minLength": 1},
			"rating": {"type": "number", "minimum": 0, "maximum": 5},
			"hours": {"type": "string"},
			"phone_number": {"type": "string"},
			"website": {"type": "string"}
		},
		"additionalProperties": false
	}`)

	ChatMessageSchema = MustCompile("chat_message.json", `{
		"type": "object",
		"required": ["message"],
		"properties": {
			"message": {"type": "string", "minLength": 1},
			"fallback": {"type": "boolean"},
			"history": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["role", "content"],
					"properties": {
						"role": {"type": "string", "enum": ["user", "assistant"]},
						"content": {"type": "string"}
					}
				}
			}
		},
		"additionalProperties": true
	}`)

	SymptomAnalysisSchema = MustCompile("symptom_analysis.json", `{
		"type": "object",
		"required": ["symptoms"],
		"properties": {
			"symptoms": {
				"anyOf": [
					{"type": "string", "minLength": 1},
					{"type": "array", "items": {"type": "string"}, "minItems": 1}
				]
			},
			"duration": {"type": "string"},
			"age": {"type": "integer", "minimum": 0},
			"fallback": {"type": "boolean"}
		},
		"additionalProperties": true
	}`)

	AssessmentInputSchema = MustCompile("assessment_input.json", `{
		"type": "object",
		"minProperties": 1
	}`)

	GeocodeSchema = MustCompile("geocode.json", `{
		"type": "object",
		"required": ["address"],
		"properties": {
			"address": {"type": "string", "minLength": 1}
		},
		"additionalProperties": false
	}`)

	ReverseGeocodeSchema = MustCompile("reverse_geocode.json", `{
		"type": "object",
		"required": ["latitude", "longitude"],
		"properties": {
			"latitude": {"type": "number", "minimum": -90, "maximum": 90},
			"longitude": {"type": "number", "minimum": -180, "maximum": 180}
		},
		"additionalProperties": false
	}`)
)
