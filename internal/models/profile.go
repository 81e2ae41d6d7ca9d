package models

// Profile is the signed-in member's account snapshot from /mobile/profile.
type Profile struct {
	User   User
	Member Member
}

// User is the account-level identity.
type User struct {
	ID    int
	Name  string
	Email string
	Phone string
}

// Member is the gym-membership record (the backend's "aluno").
type Member struct {
	ID     int
	Name   string
	Goal   string
	Status string
}

// ProfileWire is the backend's {user, aluno} profile shape.
type ProfileWire struct {
	User struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Telefone string `json:"telefone"`
	} `json:"user"`
	Aluno struct {
		ID       int    `json:"id"`
		Nome     string `json:"nome"`
		Objetivo string `json:"objetivo"`
		Status   string `json:"status"`
	} `json:"aluno"`
}

// NormalizeProfile converts the wire profile into canonical form.
func NormalizeProfile(p ProfileWire) Profile {
	return Profile{
		User: User{
			ID:    p.User.ID,
			Name:  p.User.Name,
			Email: p.User.Email,
			Phone: p.User.Telefone,
		},
		Member: Member{
			ID:     p.Aluno.ID,
			Name:   p.Aluno.Nome,
			Goal:   p.Aluno.Objetivo,
			Status: p.Aluno.Status,
		},
	}
}
