package order

import "encoding/json"

// Marshal encodes c for the recovery cache.
func Marshal(c Configuration) ([]byte, error) {
	return json.Marshal(c)
}

// Unmarshal decodes a cached configuration and repairs anything the setters
// would not have produced.
func Unmarshal(data []byte) (Configuration, error) {
	c := DefaultConfiguration()
	if err := json.Unmarshal(data, &c); err != nil {
		return DefaultConfiguration(), err
	}
	return c.Normalize(), nil
}
