package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

var client = http.Client{
	Timeout: 30 * time.Second,
}

func get(url string, result any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, result)
}

func post(url string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, result)
}

// decode reads the response document, turning the node's error document
// into an error.
func decode(resp *http.Response, result any) error {
	if resp.StatusCode != http.StatusOK {
		var er struct {
			Error  string            `json:"error"`
			Kind   string            `json:"kind"`
			Fields map[string]string `json:"fields"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
			return fmt.Errorf("node responded %s", resp.Status)
		}
		if er.Kind != "" {
			return fmt.Errorf("node responded %s: %s: %s", resp.Status, er.Kind, er.Error)
		}
		return fmt.Errorf("node responded %s: %s %v", resp.Status, er.Error, er.Fields)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
