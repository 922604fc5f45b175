package paypal

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	AppID       string `json:"app_id"`
	ExpiresIn   int64  `json:"expires_in"`
}

type captureResponse struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	PurchaseUnits []purchaseUnitDTO `json:"purchase_units"`
}

type purchaseUnitDTO struct {
	ReferenceID string `json:"reference_id"`
	Payments    struct {
		Captures []captureDTO `json:"captures"`
	} `json:"payments"`
}

type captureDTO struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// captureID prefers the id of the first capture; older responses only carry the order id.
func (r *captureResponse) captureID() string {
	for _, pu := range r.PurchaseUnits {
		for _, c := range pu.Payments.Captures {
			if c.ID != "" {
				return c.ID
			}
		}
	}
	return r.ID
}

// errorResponse covers both the REST error shape and the OAuth error shape.
type errorResponse struct {
	Name             string `json:"name"`
	Message          string `json:"message"`
	DebugID          string `json:"debug_id"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
