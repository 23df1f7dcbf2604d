package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SetAuthorizationRequest struct {
	Caller     string `json:"caller"`
	Authorized bool   `json:"authorized"`
}

type GrantDTO struct {
	Caller     string `json:"caller"`
	Authorized bool   `json:"authorized"`
	GrantedBy  string `json:"granted_by"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type GrantResponse struct {
	Status string   `json:"status"`
	Data   GrantDTO `json:"data"`
}

type GrantsResponse struct {
	Status string     `json:"status"`
	Data   []GrantDTO `json:"data"`
}

type AuthorizationCheckResponse struct {
	Status string `json:"status"`
	Data   struct {
		Caller     string `json:"caller"`
		Authorized bool   `json:"authorized"`
	} `json:"data"`
}
