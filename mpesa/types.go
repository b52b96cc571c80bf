// SPDX-License-Identifier: GPL-3.0-only

package mpesa

import "encoding/json"

const TransactionType = "CustomerPayBillOnline"

type STKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// Failure identifies which step of an STK push failed.
type Failure string

const (
	NoFailure    Failure = ""
	TokenFailure Failure = "token"
	PushFailure  Failure = "push"
)

// Result is the uniform envelope returned by STKPush. It marshals to
// {success, data} on success, {success, message} when no token could be
// obtained, and {success, message, response} when the push call failed;
// response is null when the provider body was unavailable or not JSON.
type Result struct {
	Success  bool
	Data     map[string]any
	Message  string
	Response map[string]any
	Failure  Failure
}

func (r Result) MarshalJSON() ([]byte, error) {
	out := map[string]any{"success": r.Success}
	switch {
	case r.Success:
		out["data"] = r.Data
	case r.Failure == PushFailure:
		out["message"] = r.Message
		out["response"] = r.Response
	default:
		out["message"] = r.Message
	}
	return json.Marshal(out)
}

// CheckoutRequestID is the provider's handle for a successful push; the
// confirmation callback carries the same id.
func (r Result) CheckoutRequestID() string {
	id, _ := r.Data["CheckoutRequestID"].(string)
	return id
}
