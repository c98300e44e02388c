package quantity

import "strings"

// Shopping and pantry categories, in the priority order used by CategoryFor.
const (
	CategoryDairy   = "Milchprodukte & Eier"
	CategoryProduce = "Obst & Gemüse"
	CategoryMeat    = "Fleisch & Fisch"
	CategoryBakery  = "Backwaren"
	CategoryDry     = "Trockenwaren & Nudeln"
	CategoryOils    = "Öle & Essig"
	CategoryCanned  = "Konserven & Gläser"
	CategorySpices  = "Gewürze & Saucen"
	CategoryOther   = "Sonstiges"
)

type categoryKeywords struct {
	category string
	keywords []string
}

var categoryRules = []categoryKeywords{
	{CategoryDairy, []string{
		"milch", "joghurt", "jogurt", "käse", "butter", "sahne", "quark", "schmand",
		"crème fraîche", "creme fraiche", "mozzarella", "parmesan", "feta", "ricotta",
		"mascarpone", "frischkäse", "eier", "eigelb", "eiweiß", "skyr", "kefir",
	}},
	{CategoryProduce, []string{
		"apfel", "äpfel", "banane", "birne", "orange", "zitrone", "limette", "beere",
		"traube", "mango", "ananas", "avocado", "tomate", "gurke", "salat", "zwiebel",
		"knoblauch", "kartoffel", "karotte", "möhre", "paprika", "spinat", "brokkoli",
		"blumenkohl", "zucchini", "aubergine", "pilz", "champignon", "lauch", "porree",
		"sellerie", "kohl", "ingwer", "petersilie", "basilikum", "schnittlauch",
		"koriander", "dill", "minze", "radieschen", "kürbis", "süßkartoffel", "rucola",
	}},
	{CategoryMeat, []string{
		"fleisch", "hähnchen", "huhn", "hühner", "pute", "rind", "schwein", "hack",
		"speck", "schinken", "wurst", "salami", "lamm", "lachs", "fisch", "forelle",
		"kabeljau", "garnele", "shrimp", "thunfisch",
	}},
	{CategoryBakery, []string{
		"brot", "brötchen", "toast", "baguette", "croissant", "tortilla", "wrap",
		"fladenbrot", "ciabatta", "laugen",
	}},
	{CategoryDry, []string{
		"nudel", "pasta", "spaghetti", "penne", "fusilli", "lasagne", "reis", "mehl",
		"zucker", "haferflocken", "müsli", "linsen", "couscous", "bulgur", "quinoa",
		"grieß", "backpulver", "hefe", "stärke", "semmelbrösel", "paniermehl",
	}},
	{CategoryOils, []string{
		"öl", "essig", "balsamico",
	}},
	{CategoryCanned, []string{
		"dose", "konserve", "passierte", "pizzatomaten", "kichererbsen", "kidneybohnen",
		"mais", "glas", "eingelegt", "oliven", "kapern", "kokosmilch",
	}},
	{CategorySpices, []string{
		"salz", "pfeffer", "gewürz", "curry", "zimt", "oregano", "thymian", "rosmarin",
		"kreuzkümmel", "kümmel", "muskat", "chili", "sauce", "soße", "senf", "ketchup",
		"mayonnaise", "brühe", "fond", "sojasauce", "honig", "vanille",
	}},
}

// CategoryFor assigns an item name to a category by case-insensitive keyword match.
// The first matching category wins; unmatched names land in CategoryOther.
func CategoryFor(itemName string) string {
	name := strings.ToLower(itemName)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(name, keyword) {
				return rule.category
			}
		}
	}
	return CategoryOther
}

// Categories lists every category in priority order, CategoryOther last.
func Categories() []string {
	out := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		out = append(out, rule.category)
	}
	return append(out, CategoryOther)
}
