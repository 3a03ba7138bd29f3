package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Catalog is the static menu.
var Catalog = []models.Product{
	{Name: "Pepperoni Pizza", Description: "Classic pepperoni on a hand tossed crust with mozzarella.", Price: price("12.99"), Category: models.CategoryPizza, Image: "/images/pepperoni-pizza.jpg", Rating: 4.7, Bestseller: true},
	{Name: "Margherita Pizza", Description: "San Marzano tomato, fresh mozzarella and basil.", Price: price("10.99"), Category: models.CategoryPizza, Image: "/images/margherita-pizza.jpg", Rating: 4.5},
	{Name: "Spicy Inferno Pizza", Description: "Jalapenos, chili flakes, spicy sausage and ghost pepper sauce.", Price: price("13.99"), Category: models.CategoryPizza, Image: "/images/inferno-pizza.jpg", Rating: 4.6},
	{Name: "Cheeseburger Deluxe", Description: "Double beef patty, cheddar, pickles and house sauce.", Price: price("9.99"), Category: models.CategoryBurgers, Image: "/images/cheeseburger-deluxe.jpg", Rating: 4.8, Bestseller: true},
	{Name: "Crispy Chicken Burger", Description: "Buttermilk fried chicken with slaw and spicy mayo.", Price: price("8.99"), Category: models.CategoryBurgers, Image: "/images/crispy-chicken-burger.jpg", Rating: 4.4},
	{Name: "Veggie Smash Burger", Description: "Smashed black bean patty with avocado and pepper jack.", Price: price("8.49"), Category: models.CategoryBurgers, Image: "/images/veggie-smash-burger.jpg", Rating: 4.2},
	{Name: "Crispy French Fries", Description: "Golden fries with sea salt.", Price: price("3.99"), Category: models.CategoryFries, Image: "/images/french-fries.jpg", Rating: 4.5, Bestseller: true},
	{Name: "Peri Peri Fries", Description: "Fries tossed in smoky peri peri seasoning.", Price: price("4.49"), Category: models.CategoryFries, Image: "/images/peri-peri-fries.jpg", Rating: 4.6},
	{Name: "Loaded Cheese Fries", Description: "Fries with melted cheddar, bacon bits and scallions.", Price: price("5.49"), Category: models.CategoryFries, Image: "/images/loaded-fries.jpg", Rating: 4.3},
	{Name: "Cola", Description: "Ice cold cola.", Price: price("1.99"), Category: models.CategoryBeverages, Image: "/images/cola.jpg", Rating: 4.1},
	{Name: "Mango Lassi", Description: "Chilled yoghurt shake with Alphonso mango.", Price: price("3.49"), Category: models.CategoryBeverages, Image: "/images/mango-lassi.jpg", Rating: 4.7, Bestseller: true},
	{Name: "Iced Lemon Tea", Description: "Fresh brewed tea with lemon.", Price: price("2.49"), Category: models.CategoryBeverages, Image: "/images/iced-lemon-tea.jpg", Rating: 4.0},
	{Name: "Burger Feast Combo", Description: "Cheeseburger Deluxe, fries and a cola.", Price: price("14.49"), Category: models.CategoryCombos, Image: "/images/burger-feast-combo.jpg", Rating: 4.6, Bestseller: true},
	{Name: "Pizza Party Combo", Description: "Two medium pizzas with garlic bread and two drinks.", Price: price("24.99"), Category: models.CategoryCombos, Image: "/images/pizza-party-combo.jpg", Rating: 4.5},
	{Name: "Chocolate Lava Cake", Description: "Warm chocolate cake with a molten centre.", Price: price("4.99"), Category: models.CategoryDesserts, Image: "/images/lava-cake.jpg", Rating: 4.8},
	{Name: "Oreo Sundae", Description: "Vanilla soft serve with crushed cookies and fudge.", Price: price("3.99"), Category: models.CategoryDesserts, Image: "/images/oreo-sundae.jpg", Rating: 4.4},
	{Name: "Cinnamon Churros", Description: "Churros dusted with cinnamon sugar and chocolate dip.", Price: price("4.49"), Category: models.CategoryDesserts, Image: "/images/churros.jpg", Rating: 4.3},
}

// SeedProducts inserts the catalog when the products table is empty.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := make([]models.Product, len(Catalog))
	copy(products, Catalog)
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	utils.InfoLogger.Printf("Seeded %d products", len(products))
	return nil
}

// SeedTables makes sure every named dine-in table exists. Existing rows
// keep their status.
func SeedTables(db *gorm.DB, numbers []string) error {
	for _, number := range numbers {
		table := models.Table{TableNumber: number, Status: models.TableAvailable, Seats: 4}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "table_number"}},
			DoNothing: true,
		}).Create(&table).Error
		if err != nil {
			return fmt.Errorf("seed table %s: %w", number, err)
		}
	}
	return nil
}
