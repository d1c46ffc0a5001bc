package client

import (
	"encoding/json"
	"fmt"
	"strconv"

	pkgerrors "github.com/pkg/errors"
)

// GetVersion returns the daemon's version string.
func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get daemon version")
	}
	return parseStringResponse(ret)
}

// GetSupplies lists the registered power supply names.
func (c *Client) GetSupplies() ([]string, error) {
	ret, err := c.Get("/supplies")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list supplies")
	}
	var names []string
	if err := json.Unmarshal([]byte(ret), &names); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal supply list")
	}
	return names, nil
}

// GetProperties reads every readable property of one supply. Values are
// integers except status, health and technology, which come as names.
func (c *Client) GetProperties(supply string) (map[string]any, error) {
	ret, err := c.Get("/supplies/" + supply)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read properties of %s", supply)
	}
	props := map[string]any{}
	if err := json.Unmarshal([]byte(ret), &props); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal properties")
	}
	return props, nil
}

// GetIntProperty reads one integer property.
func (c *Client) GetIntProperty(supply, prop string) (int, error) {
	ret, err := c.Get(fmt.Sprintf("/supplies/%s/%s", supply, prop))
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to read %s/%s", supply, prop)
	}
	val, err := strconv.Atoi(ret)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "failed to unmarshal %s/%s", supply, prop)
	}
	return val, nil
}

// SetIntProperty writes one integer property.
func (c *Client) SetIntProperty(supply, prop string, val int) (string, error) {
	return c.Put(fmt.Sprintf("/supplies/%s/%s", supply, prop), strconv.Itoa(val))
}

// SetStatus writes the status property by name ("charging",
// "not-charging").
func (c *Client) SetStatus(supply, status string) (string, error) {
	payload, err := json.Marshal(status)
	if err != nil {
		return "", err
	}
	return c.Put(fmt.Sprintf("/supplies/%s/status", supply), string(payload))
}

// NextEvent blocks until a supply's properties change and returns its
// name, or ErrNoContent when the daemon's long-poll window expires.
func (c *Client) NextEvent() (string, error) {
	ret, err := c.Get("/events")
	if err != nil {
		return "", err
	}
	return parseStringResponse(ret)
}

func parseStringResponse(ret string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(ret), &s); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal response %q", ret)
	}
	return s, nil
}
