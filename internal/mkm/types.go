package mkm

import (
	"encoding/json"
)

// Wire types for the Cardmarket JSON responses. They are converted to the
// domain types in convert.go; nothing outside this package sees them.

type wireLanguage struct {
	IDLanguage   int    `json:"idLanguage"`
	LanguageName string `json:"languageName"`
}

type wireAddress struct {
	Country string `json:"country"`
}

type wireSeller struct {
	IDUser   int         `json:"idUser"`
	Username string      `json:"username"`
	Address  wireAddress `json:"address"`
}

// wireProductSummary is the compact product record embedded in stock and
// search-result articles.
type wireProductSummary struct {
	IDProduct int    `json:"idProduct"`
	EnName    string `json:"enName"`
	Expansion string `json:"expansion"`
	Rarity    string `json:"rarity"`
}

type wireArticle struct {
	IDArticle int                 `json:"idArticle"`
	IDProduct int                 `json:"idProduct"`
	Language  wireLanguage        `json:"language"`
	Comments  string              `json:"comments"`
	Price     float64             `json:"price"`
	Count     int                 `json:"count"`
	Condition string              `json:"condition"`
	IsFoil    bool                `json:"isFoil"`
	IsSigned  bool                `json:"isSigned"`
	IsPlayset bool                `json:"isPlayset"`
	IsAltered bool                `json:"isAltered"`
	Product   *wireProductSummary `json:"product"`
	Seller    *wireSeller         `json:"seller"`
}

type wirePriceGuide struct {
	Sell      float64 `json:"SELL"`
	Low       float64 `json:"LOW"`
	LowEx     float64 `json:"LOWEX"`
	LowFoil   float64 `json:"LOWFOIL"`
	Avg       float64 `json:"AVG"`
	Trend     float64 `json:"TREND"`
	TrendFoil float64 `json:"TRENDFOIL"`
}

// expansionName tolerates both encodings the API uses for a product's
// expansion: a bare string on compact records and an object with an enName
// field on full product records.
type expansionName string

func (e *expansionName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = expansionName(s)
		return nil
	}
	var obj struct {
		EnName string `json:"enName"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = expansionName(obj.EnName)
	return nil
}

type wireProduct struct {
	IDProduct  int            `json:"idProduct"`
	EnName     string         `json:"enName"`
	Expansion  expansionName  `json:"expansion"`
	Rarity     string         `json:"rarity"`
	PriceGuide wirePriceGuide `json:"priceGuide"`
}

type wireAccount struct {
	Username   string `json:"username"`
	Country    string `json:"country"`
	OnVacation bool   `json:"onVacation"`
}

type wireWantslist struct {
	IDWantslist int    `json:"idWantslist"`
	Name        string `json:"name"`
	IDGame      int    `json:"idGame"`
	ItemCount   int    `json:"itemCount"`
}

type wireOrder struct {
	IDOrder int `json:"idOrder"`
	State   struct {
		State string `json:"state"`
	} `json:"state"`
	ArticleCount int     `json:"articleCount"`
	TotalValue   float64 `json:"totalValue"`
}

// Response envelopes.

type articlesEnvelope struct {
	Article []wireArticle `json:"article"`
}

type productEnvelope struct {
	Product wireProduct `json:"product"`
}

type productListEnvelope struct {
	Product []wireProduct `json:"product"`
}

type accountEnvelope struct {
	Account wireAccount `json:"account"`
}

type wantslistEnvelope struct {
	Wantslist []wireWantslist `json:"wantslist"`
}

type ordersEnvelope struct {
	Order []wireOrder `json:"order"`
}
