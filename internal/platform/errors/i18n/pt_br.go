package i18n

// ptBRCatalog covers the messages most often shown to goal authors and
// participants. Other codes fall back to en-US.
var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		CodeNotAuthor:           "Somente o autor da meta pode fazer isso",
		CodeCallerRequired:      "É necessário informar a conta de quem chama",
		CodeGoalNotFound:        "A meta {{.GoalID}} não foi encontrada",
		CodeGoalAlreadyClosed:   "A meta {{.GoalID}} já está encerrada",
		CodeGoalDeadlinePassed:  "O prazo da meta já passou",
		CodeAlreadyParticipant:  "A conta já participa desta meta",
		CodeStakeZero:           "A aposta deve ser maior que zero",
		CodeStakeMismatch:       "Os fundos anexados devem ser iguais à aposta",
		CodeInsufficientBalance: "Saldo insuficiente para cobrir {{.Amount}}",
		CodeDeadlineNotInFuture: "O prazo deve estar no futuro",
		CodeURIEmpty:            "A URI não pode ser vazia",
	},
}
