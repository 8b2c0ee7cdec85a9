package mkm

import (
	domain "github.com/mkmtools/mkmprice/pkg/types"
)

// toArticles converts wire articles into domain articles, preserving order.
func toArticles(items []wireArticle) []domain.Article {
	articles := make([]domain.Article, 0, len(items))
	for i := range items {
		articles = append(articles, toArticle(&items[i]))
	}
	return articles
}

func toArticle(item *wireArticle) domain.Article {
	a := domain.Article{
		ArticleID:    item.IDArticle,
		ProductID:    item.IDProduct,
		Condition:    domain.Condition(item.Condition),
		IsFoil:       item.IsFoil,
		IsSigned:     item.IsSigned,
		IsAltered:    item.IsAltered,
		IsPlayset:    item.IsPlayset,
		LanguageID:   item.Language.IDLanguage,
		LanguageName: item.Language.LanguageName,
		Price:        item.Price,
		Count:        item.Count,
	}

	if item.Product != nil {
		a.ProductName = item.Product.EnName
		a.Expansion = item.Product.Expansion
		a.Rarity = item.Product.Rarity
		if a.ProductID == 0 {
			a.ProductID = item.Product.IDProduct
		}
	}

	if item.Seller != nil {
		a.SellerName = item.Seller.Username
		a.SellerCountry = item.Seller.Address.Country
	}

	return a
}

func toProduct(item *wireProduct) *domain.Product {
	return &domain.Product{
		ProductID: item.IDProduct,
		Name:      item.EnName,
		Expansion: string(item.Expansion),
		Rarity:    item.Rarity,
		PriceGuide: domain.PriceGuide{
			Sell:      item.PriceGuide.Sell,
			Low:       item.PriceGuide.Low,
			LowExPlus: item.PriceGuide.LowEx,
			LowFoil:   item.PriceGuide.LowFoil,
			Average:   item.PriceGuide.Avg,
			Trend:     item.PriceGuide.Trend,
			TrendFoil: item.PriceGuide.TrendFoil,
		},
	}
}

func toProducts(items []wireProduct) []domain.Product {
	products := make([]domain.Product, 0, len(items))
	for i := range items {
		products = append(products, *toProduct(&items[i]))
	}
	return products
}

func toAccount(item *wireAccount) *domain.Account {
	return &domain.Account{
		Username:   item.Username,
		Country:    item.Country,
		OnVacation: item.OnVacation,
	}
}

func toWantslists(items []wireWantslist) []domain.Wantslist {
	lists := make([]domain.Wantslist, 0, len(items))
	for _, item := range items {
		lists = append(lists, domain.Wantslist{
			WantslistID: item.IDWantslist,
			Name:        item.Name,
			GameID:      item.IDGame,
			ItemCount:   item.ItemCount,
		})
	}
	return lists
}

func toOrders(items []wireOrder) []domain.Order {
	orders := make([]domain.Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, domain.Order{
			OrderID:      item.IDOrder,
			State:        item.State.State,
			ArticleCount: item.ArticleCount,
			TotalValue:   item.TotalValue,
		})
	}
	return orders
}
