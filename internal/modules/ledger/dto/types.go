package dto

type CreditInput struct {
	Amount int
	Reason string
}

type DebitInput struct {
	Amount int
	Reason string
}

type BalanceOutput struct {
	Balance int
	Warning string
}
