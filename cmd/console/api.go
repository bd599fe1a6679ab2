package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"gaiaterm/pkg/oracle"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// requestTurn sends a turn request to the API and returns the parsed
// oracle response. Non-200 responses are surfaced as the API's
// player-facing error message; transport failures surface the generic
// message, never a raw dial or read error, since the returned error
// text is rendered verbatim in the transcript.
func requestTurn(client *http.Client, baseURL string, turnReq *oracle.TurnRequest) (*oracle.TurnResponse, error) {
	jsonData, err := json.Marshal(turnReq)
	if err != nil {
		return nil, errors.New(oracle.GenericErrorMessage)
	}

	resp, err := client.Post(
		baseURL+"/v1/turn",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, errors.New(oracle.GenericErrorMessage)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(oracle.GenericErrorMessage)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp oracle.ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, errors.New(oracle.GenericErrorMessage)
		}
		return nil, errors.New(errorResp.Message())
	}

	var turnResp oracle.TurnResponse
	if err := json.Unmarshal(body, &turnResp); err != nil {
		return nil, errors.New(oracle.GenericErrorMessage)
	}
	return &turnResp, nil
}
