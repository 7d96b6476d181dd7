package planning

import "gopkg.in/yaml.v3"

// UnmarshalYAML lets the CLI accept YAML instance files with the same
// validation (non-negative, whole-number fields) as UnmarshalJSON.
func (inst *Instance) UnmarshalYAML(value *yaml.Node) error {
	var raw rawInstance
	if err := value.Decode(&raw); err != nil {
		return &ValidationError{Cause: ErrNotInteger, Message: "malformed instance YAML: " + err.Error()}
	}
	decoded, err := decodeRawInstance(raw)
	if err != nil {
		return err
	}
	*inst = decoded
	return nil
}
