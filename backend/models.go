package backend

// Principal is the user record returned by the backend on login.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Kind  string `json:"userType"`
	Role  string `json:"role"`
}

// LoginResult is the decoded body of POST /auth/login.
type LoginResult struct {
	User         Principal `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

// TokenResult is the decoded body of POST /auth/refresh.
type TokenResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// errorBody is the error envelope the backend attaches to non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
