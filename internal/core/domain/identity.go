package domain

// Identity is the authenticated caller, rebuilt on every request from a
// verified access token.
type Identity struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Operation names a guarded marketplace transaction.
type Operation string

const (
	OperationBuy  Operation = "buy"
	OperationSell Operation = "sell"
)

// Valid reports whether op is a known guarded operation.
func (op Operation) Valid() bool {
	return op == OperationBuy || op == OperationSell
}

// Admission is the result of a successful transaction guard run. Handlers
// read it from the request context and must treat it as read-only.
type Admission struct {
	Identity  Identity
	Account   *User
	Operation Operation
}
