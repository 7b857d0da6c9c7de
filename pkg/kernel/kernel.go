package kernel

// UserID identifica al dueño de un perfil, sus propuestas y su memoria
type UserID string

func NewUserID(id string) UserID { return UserID(id) }

func (id UserID) String() string { return string(id) }

func (id UserID) IsEmpty() bool { return id == "" }

// SessionID identifica una sesión de conversación
type SessionID string

func NewSessionID(id string) SessionID { return SessionID(id) }

func (id SessionID) String() string { return string(id) }

func (id SessionID) IsEmpty() bool { return id == "" }

// AuthContext es la identidad autenticada adjunta a cada request
type AuthContext struct {
	UserID UserID
	Email  string
	Name   string
}

func (a *AuthContext) IsValid() bool {
	return a != nil && !a.UserID.IsEmpty()
}
