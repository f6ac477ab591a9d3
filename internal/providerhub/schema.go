package providerhub

import "github.com/invopop/jsonschema"

// QuestionResponse is the structured-output shape requested from providers
// that support JSON-schema-constrained generation.
type QuestionResponse struct {
	Answer     string   `json:"answer" jsonschema_description:"The comprehensive answer to the question"`
	KeyPoints  []string `json:"key_points" jsonschema_description:"3-5 key points from the answer"`
	Confidence string   `json:"confidence" jsonschema:"enum=high,enum=medium,enum=low" jsonschema_description:"Confidence level in the answer accuracy"`
}

// GenerateSchema reflects a JSON schema for T, used to request structured
// output from providers that support it.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var questionResponseSchema = GenerateSchema[QuestionResponse]()
