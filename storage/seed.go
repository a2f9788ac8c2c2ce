package storage

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"gavel/models"
)

type seedPlayer struct {
	name        string
	role        string
	nationality string
	basePrice   int64
}

// 預設的球員名單，沿用 2025 年名冊
var seedPlayers = []seedPlayer{
	{"Ruturaj Gaikwad", "BATTER", "India", 200},
	{"Rashid Khan", "BOWLER", "Afghanistan", 200},
	{"Shivam Dube", "ALL-ROUNDER", "India", 200},
	{"Hardik Pandya", "ALL-ROUNDER", "India", 200},
	{"Pat Cummins", "BOWLER", "Australia", 200},
	{"Rinku Singh", "BATTER", "India", 200},
	{"Jasprit Bumrah", "BOWLER", "India", 200},
	{"Kuldeep Yadav", "BOWLER", "India", 200},
	{"Sunil Narine", "ALL-ROUNDER", "West Indies", 200},
	{"Travis Head", "BATTER", "Australia", 200},
	{"Yashaswi Jaiswal", "BATTER", "India", 200},
	{"Ravindra Jadeja", "ALL-ROUNDER", "India", 200},
	{"Andre Russell", "ALL-ROUNDER", "West Indies", 200},
	{"Suryakumar Yadav", "BATTER", "India", 200},
	{"Virat Kohli", "BATTER", "India", 200},
	{"Tristan Stubbs", "BATTER", "South Africa", 200},
	{"Nicholas Pooran", "WICKETKEEPER", "West Indies", 200},
	{"Matheesha Pathirana", "BOWLER", "Sri Lanka", 200},
	{"Rohit Sharma", "BATTER", "India", 200},
	{"Jos Buttler", "WICKETKEEPER", "England", 200},
	{"Shreyas Iyer", "BATTER", "India", 200},
	{"Rishabh Pant", "WICKETKEEPER", "India", 200},
	{"Kagiso Rabada", "BOWLER", "South Africa", 200},
	{"Arshdeep Singh", "BOWLER", "India", 200},
	{"Mitchell Starc", "BOWLER", "Australia", 200},
	{"Yuzvendra Chahal", "BOWLER", "India", 200},
	{"Liam Livingstone", "ALL-ROUNDER", "England", 200},
	{"David Miller", "BATTER", "South Africa", 150},
	{"KL Rahul", "WICKETKEEPER", "India", 200},
	{"Mohammad Shami", "BOWLER", "India", 200},
	{"Harry Brook", "BATTER", "England", 200},
	{"Devon Conway", "BATTER", "New Zealand", 200},
	{"Aiden Markram", "BATTER", "South Africa", 200},
	{"Rahul Tripathi", "BATTER", "India", 75},
	{"David Warner", "BATTER", "Australia", 200},
	{"Ravichandaran Ashwin", "ALL-ROUNDER", "India", 200},
	{"Mitchell Marsh", "ALL-ROUNDER", "Australia", 200},
	{"Glenn Maxwell", "ALL-ROUNDER", "Australia", 200},
	{"Rachin Ravindra", "ALL-ROUNDER", "New Zealand", 150},
	{"Marcus Stoinis", "ALL-ROUNDER", "Australia", 200},
	{"Jonny Bairstow", "WICKETKEEPER", "England", 200},
	{"Quinton De Kock", "WICKETKEEPER", "South Africa", 200},
	{"Rahmanullah Gurbaz", "WICKETKEEPER", "Afghanistan", 200},
	{"Ishan Kishan", "WICKETKEEPER", "India", 200},
	{"Phil Salt", "WICKETKEEPER", "England", 200},
	{"Jitesh Sharma", "WICKETKEEPER", "India", 100},
	{"Trent Boult", "BOWLER", "New Zealand", 200},
	{"Josh Hazlewood", "BOWLER", "Australia", 200},
	{"Avesh Khan", "BOWLER", "India", 200},
	{"Prasidh Krishna", "BOWLER", "India", 200},
	{"Anrich Nortje", "BOWLER", "South Africa", 200},
	{"Noor Ahmad", "BOWLER", "Afghanistan", 200},
	{"Rahul Chahar", "BOWLER", "India", 100},
	{"Wanindu Hasaranga", "BOWLER", "Sri Lanka", 200},
	{"Maheesh Theekshana", "BOWLER", "Sri Lanka", 200},
	{"Adam Zampa", "BOWLER", "Australia", 200},
	{"Faf Du Plessis", "BATTER", "South Africa", 200},
	{"Glenn Phillips", "BATTER", "New Zealand", 200},
	{"Rovman Powell", "BATTER", "West Indies", 150},
	{"Ajinkya Rahane", "BATTER", "India", 150},
	{"Prithvi Shaw", "BATTER", "India", 75},
	{"Kane Williamson", "BATTER", "New Zealand", 200},
	{"Sam Curran", "ALL-ROUNDER", "England", 200},
	{"Marco Jansen", "ALL-ROUNDER", "South Africa", 125},
	{"Daryl Mitchell", "ALL-ROUNDER", "New Zealand", 200},
	{"Krunal Pandya", "ALL-ROUNDER", "India", 200},
	{"Nitish Rana", "ALL-ROUNDER", "India", 150},
	{"Washington Sundar", "ALL-ROUNDER", "India", 200},
	{"Shardul Thakur", "ALL-ROUNDER", "India", 200},
	{"Alex Carey", "WICKETKEEPER", "Australia", 100},
	{"Shai Hope", "WICKETKEEPER", "West Indies", 125},
	{"Josh Inglis", "WICKETKEEPER", "Australia", 200},
	{"Deepak Chahar", "BOWLER", "India", 200},
	{"Gerald Coetzee", "BOWLER", "South Africa", 125},
	{"Lockie Ferguson", "BOWLER", "New Zealand", 200},
	{"Bhuvneshwar Kumar", "BOWLER", "India", 200},
	{"Akeal Hosein", "BOWLER", "West Indies", 150},
	{"Keshav Maharaj", "BOWLER", "South Africa", 75},
	{"Mujeeb Ur Rahman", "BOWLER", "Afghanistan", 200},
	{"Adil Rashid", "BOWLER", "England", 200},
	{"Mayank Agarawal", "BATTER", "India", 100},
	{"Manish Pandey", "BATTER", "India", 75},
	{"Piyush Chawla", "BOWLER", "India", 50},
	{"Mohit Sharma", "BOWLER", "India", 50},
	{"Karun Nair", "BATTER", "India", 30},
	{"Abdul Samad", "ALL-ROUNDER", "India", 30},
	{"Vijay Shankar", "ALL-ROUNDER", "India", 30},
	{"Anuj Rawat", "WICKETKEEPER", "India", 30},
	{"Vishnu Vinod", "WICKETKEEPER", "India", 30},
	{"Akash Madhwal", "BOWLER", "India", 30},
	{"Kartik Tyagi", "BOWLER", "India", 40},
	{"Mayank Markande", "BOWLER", "India", 30},
	{"Karn Sharma", "BOWLER", "India", 50},
	{"Arjun Tendulkar", "BOWLER", "India", 30},
}

// DefaultPlayers 回傳預設名單對應的模型，每次呼叫都是新的切片
func DefaultPlayers() []models.Player {
	return lo.Map(seedPlayers, func(p seedPlayer, _ int) models.Player {
		return models.Player{
			Name:        p.name,
			Role:        p.role,
			Nationality: p.nationality,
			BasePrice:   decimal.NewFromInt(p.basePrice),
			Status:      models.PlayerStatusAvailable,
		}
	})
}
