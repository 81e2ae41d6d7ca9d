package models

// Membership is the next-due billing record from /mobile/mensalidades/proxima.
type Membership struct {
	ID             int
	Amount         float64
	DueDate        string // YYYY-MM-DD as served by the backend
	Status         string // pendente, pago, vencido
	ReferenceMonth string
	PlanName       string
	DaysUntilDue   int
}

// MembershipWire is the backend's mensalidade shape.
type MembershipWire struct {
	ID                 int            `json:"id"`
	Valor              float64        `json:"valor"`
	DataVencimento     string         `json:"data_vencimento"`
	Status             string         `json:"status"`
	MesReferencia      string         `json:"mes_referencia"`
	DiasParaVencimento int            `json:"dias_para_vencimento"`
	Matricula          *MatriculaWire `json:"matricula"`
}

// MatriculaWire is the enrollment relation on a mensalidade.
type MatriculaWire struct {
	ID    int `json:"id"`
	Plano struct {
		Nome  string  `json:"nome"`
		Valor float64 `json:"valor"`
	} `json:"plano"`
}

// NormalizeMembership converts the wire mensalidade into canonical form.
func NormalizeMembership(m MembershipWire) Membership {
	out := Membership{
		ID:             m.ID,
		Amount:         m.Valor,
		DueDate:        m.DataVencimento,
		Status:         m.Status,
		ReferenceMonth: m.MesReferencia,
		DaysUntilDue:   m.DiasParaVencimento,
	}
	if m.Matricula != nil {
		out.PlanName = m.Matricula.Plano.Nome
	}
	return out
}
