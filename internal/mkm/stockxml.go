package mkm

import (
	"strconv"

	"github.com/beevik/etree"
)

// StockUpsert is one record of a stock write request. Zero-valued fields are
// omitted from the payload; boolean flags are pointers so that add requests
// can state them explicitly while price updates leave them out entirely.
type StockUpsert struct {
	ArticleID  int
	ProductID  int
	LanguageID int
	Comments   string
	Count      int
	Price      float64
	Condition  string
	IsFoil     *bool
	IsSigned   *bool
	IsPlayset  *bool
}

// buildStockXML renders a stock write body of the form
// <request><article>...</article></request>. Booleans are serialized as
// lowercase text literals: the write endpoint is string-typed and treats
// "False" as true.
func buildStockXML(entries []StockUpsert) ([]byte, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("request")

	for i := range entries {
		e := &entries[i]
		article := root.CreateElement("article")

		addInt := func(tag string, v int) {
			if v > 0 {
				article.CreateElement(tag).SetText(strconv.Itoa(v))
			}
		}
		addBool := func(tag string, v *bool) {
			if v != nil {
				article.CreateElement(tag).SetText(strconv.FormatBool(*v))
			}
		}

		addInt("idArticle", e.ArticleID)
		addInt("idProduct", e.ProductID)
		addInt("idLanguage", e.LanguageID)
		if e.Comments != "" {
			article.CreateElement("comments").SetText(e.Comments)
		}
		addInt("count", e.Count)
		if e.Price > 0 {
			article.CreateElement("price").SetText(strconv.FormatFloat(e.Price, 'f', 2, 64))
		}
		if e.Condition != "" {
			article.CreateElement("condition").SetText(e.Condition)
		}
		addBool("isFoil", e.IsFoil)
		addBool("isSigned", e.IsSigned)
		addBool("isPlayset", e.IsPlayset)
	}

	return doc.WriteToBytes()
}

// buildDeleteXML renders a stock delete body carrying article IDs only.
func buildDeleteXML(articleIDs []int) ([]byte, error) {
	doc := etree.NewDocument()
	root := doc.CreateElement("request")
	for _, id := range articleIDs {
		article := root.CreateElement("article")
		article.CreateElement("idArticle").SetText(strconv.Itoa(id))
	}
	return doc.WriteToBytes()
}
