package domain

// ============================================================
// Auth — Request / Response types
// ============================================================

// SignUpRequest is the body for POST /v1/auth/signup.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest is the body for POST /v1/auth/signin.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the issued access token.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

// DefaultCategories are seeded for every new user.
var DefaultCategories = []CreateCategoryRequest{
	{Name: "Salário", Icon: "salary", Type: TransactionIncome},
	{Name: "Freelance", Icon: "freelance", Type: TransactionIncome},
	{Name: "Outro", Icon: "other", Type: TransactionIncome},
	{Name: "Casa", Icon: "home", Type: TransactionExpense},
	{Name: "Alimentação", Icon: "food", Type: TransactionExpense},
	{Name: "Educação", Icon: "education", Type: TransactionExpense},
	{Name: "Lazer", Icon: "fun", Type: TransactionExpense},
	{Name: "Mercado", Icon: "grocery", Type: TransactionExpense},
	{Name: "Roupas", Icon: "clothes", Type: TransactionExpense},
	{Name: "Transporte", Icon: "transport", Type: TransactionExpense},
	{Name: "Viagem", Icon: "travel", Type: TransactionExpense},
	{Name: "Outro", Icon: "other", Type: TransactionExpense},
}
