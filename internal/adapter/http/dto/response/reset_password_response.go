package response

type ResetPasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
