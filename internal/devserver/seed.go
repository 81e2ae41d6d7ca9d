package devserver

import (
	"encoding/json"

	"github.com/claude/gymtrack/internal/models"
)

// Seeded credentials accepted by the devserver.
const (
	SeedEmail    = "aluno@example.com"
	SeedPassword = "treino123"
)

// seedWorkoutsJSON is the wire-shaped treino list, kept as raw JSON so the
// devserver serves exactly what the real backend would, including a legacy
// pivot-only exercise and one with no division label.
const seedWorkoutsJSON = `[
  {
    "id": 1,
    "nome": "Hipertrofia ABC",
    "descricao": "Programa dividido em três dias",
    "tipo": "Força",
    "dia_semana": {"id": 2, "nome": "Segunda"},
    "exercicios": [
      {"id": 11, "nome": "Supino Reto", "divisao": "A", "series": 4, "repeticoes": "8-12", "carga": "40", "ordem": 1},
      {"id": 12, "nome": "Crucifixo", "divisao": "A", "series": 3, "repeticoes": 12, "carga": 14, "ordem": 2},
      {"id": 13, "nome": "Agachamento Livre", "divisao": "B", "series": 4, "repeticoes": "6-10", "carga": "60", "ordem": 1},
      {"id": 14, "nome": "Leg Press", "divisao": "B", "ordem": 2, "pivot": {"series": 3, "repeticoes": "12", "carga": "120"}},
      {"id": 15, "nome": "Levantamento Terra", "divisao": "C", "series": 4, "repeticoes": "5", "carga": "80", "ordem": 1}
    ]
  },
  {
    "id": 2,
    "nome": "Cardio Funcional",
    "descricao": "Circuito de corpo inteiro",
    "tipo": "Cardio",
    "dia_semana": {"id": 4, "nome": "Quarta"},
    "exercicios": [
      {"id": 21, "nome": "Burpee", "series": 3, "repeticoes": "15", "ordem": 1},
      {"id": 22, "nome": "Corda Naval", "series": 3, "repeticoes": "30s", "ordem": 2}
    ]
  },
  {
    "id": 3,
    "nome": "Mobilidade",
    "descricao": "Alongamento e mobilidade articular",
    "tipo": "Flexibilidade",
    "exercicios": [
      {"id": 31, "nome": "Alongamento Posterior", "series": 2, "repeticoes": "45s", "ordem": 1}
    ]
  }
]`

func (s *Server) seed() {
	s.email = SeedEmail
	s.password = SeedPassword
	s.aluno = loginAluno{ID: 7, Nome: "Ana Souza", Email: SeedEmail, Status: "ativo"}

	s.profile.User.ID = 7
	s.profile.User.Name = "Ana Souza"
	s.profile.User.Email = SeedEmail
	s.profile.User.Telefone = "+55 11 91234-5678"
	s.profile.Aluno.ID = 7
	s.profile.Aluno.Nome = "Ana Souza"
	s.profile.Aluno.Objetivo = "Hipertrofia"
	s.profile.Aluno.Status = "ativo"

	if err := json.Unmarshal([]byte(seedWorkoutsJSON), &s.workouts); err != nil {
		// Seed data is compiled in; a decode failure is a programming error.
		panic("devserver: bad seed data: " + err.Error())
	}

	s.membership = &models.MembershipWire{
		ID:                 301,
		Valor:              129.90,
		DataVencimento:     "2026-09-10",
		Status:             "pendente",
		MesReferencia:      "2026-09",
		DiasParaVencimento: 13,
	}
	s.membership.Matricula = &models.MatriculaWire{ID: 55}
	s.membership.Matricula.Plano.Nome = "Plano Mensal"
	s.membership.Matricula.Plano.Valor = 129.90
}
