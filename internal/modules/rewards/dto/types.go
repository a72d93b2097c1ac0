package dto

type AddRewardInput struct {
	Name string
	Cost int
}

type EditRewardInput struct {
	ID   string
	Name *string
	Cost *int
}

type RewardOutput struct {
	ID         string
	Name       string
	Cost       int
	Redeemed   int
	Affordable bool
}

type MutationOutput struct {
	Reward  RewardOutput
	Warning string
}

type RedeemOutput struct {
	Reward  RewardOutput
	Balance int
	Warning string
}
