package cart

import (
	"encoding/json"
	"fmt"

	"dinekart/internal/model"
)

func encode(c *Cart) ([]byte, error) {
	if c.Items == nil {
		c = New()
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*Cart, error) {
	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []model.CartItem{}
	}
	return c, nil
}
