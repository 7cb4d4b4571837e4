package repos

import "lacasa/internal/domain"

var categorySeed = []domain.Category{
	{Key: domain.CategoryPizzas, Name: "Pizzas", Position: 1},
	{Key: domain.CategoryHamburguesas, Name: "Hamburguesas", Position: 2},
	{Key: domain.CategoryPicadas, Name: "Picadas", Position: 3},
	{Key: domain.CategoryPerros, Name: "Perros Calientes", Position: 4},
	{Key: domain.CategoryEspeciales, Name: "Especiales", Position: 5},
}

var pizzaSizeSeed = []domain.PizzaSize{
	{ID: "personal", Name: "Personal", Portions: 4, Price: 15000, MaxFlavors: 2},
	{ID: "pequeña", Name: "Pequeña", Portions: 6, Price: 25000, MaxFlavors: 2},
	{ID: "mediana", Name: "Mediana", Portions: 8, Price: 35000, MaxFlavors: 2},
	{ID: "grande", Name: "Grande", Portions: 10, Price: 50000, MaxFlavors: 3},
	{ID: "familiar", Name: "Familiar", Portions: 12, Price: 70000, MaxFlavors: 3},
	{ID: "extragrande", Name: "Extra Grande", Portions: 16, Price: 90000, MaxFlavors: 4},
}

const pizzaImage = "/pizzas/pizza.jpg"

var flavorSeed = []domain.FlavorCategory{
	{Name: "Pizzas Clásicas", Flavors: []domain.Flavor{
		{Name: "Campesina", Description: "Pollo, chorizo, tocineta, champiñones y cebolla caramelizada", ImageURL: pizzaImage},
		{Name: "Leñador", Description: "Carne molida, chorizo, jamón, tocineta y queso extra", ImageURL: pizzaImage},
		{Name: "Costillas BBQ", Description: "Costillas desmechadas en salsa BBQ, cebolla morada y cilantro", ImageURL: pizzaImage},
		{Name: "Americana", Description: "Pepperoni, jamón, salami y queso mozzarella", ImageURL: pizzaImage},
		{Name: "Margarita", Description: "Tomate fresco, albahaca, mozzarella y aceite de oliva", ImageURL: pizzaImage},
	}},
	{Name: "Pizzas de Pollo", Flavors: []domain.Flavor{
		{Name: "Pollo Especial", Description: "Pollo a la plancha, champiñones, pimentón y hierbas finas", ImageURL: pizzaImage},
		{Name: "Champiñones", Description: "Champiñones frescos, cebolla, ajo y queso parmesano", ImageURL: pizzaImage},
		{Name: "Pollo Tocineta", Description: "Pollo desmenuzado, tocineta crujiente y cebolla grillada", ImageURL: pizzaImage},
		{Name: "Pollo BBQ", Description: "Pollo en salsa BBQ, cebolla morada, maíz y cilantro", ImageURL: pizzaImage},
	}},
	{Name: "Pizzas de Carne", Flavors: []domain.Flavor{
		{Name: "Carne Mexicana", Description: "Carne molida, jalapeños, frijoles, maíz y salsa picante", ImageURL: pizzaImage},
		{Name: "Boloñesa", Description: "Salsa boloñesa casera, carne molida y queso parmesano", ImageURL: pizzaImage},
		{Name: "Mixta", Description: "Jamón, salami, champiñones, pimentón y aceitunas", ImageURL: pizzaImage},
		{Name: "Ranchera", Description: "Carne desmechada, frijoles, aguacate y salsa ranchera", ImageURL: pizzaImage},
	}},
	{Name: "Pizzas Dulces", Flavors: []domain.Flavor{
		{Name: "Dulce Hawaiana", Description: "Jamón dulce, piña fresca, cereza y queso mozzarella", ImageURL: pizzaImage},
	}},
}

const (
	burgerImage   = "/hamburguesas/10059.jpg"
	picadaImage   = "/picadas/10077.jpg"
	perroImage    = "/perros/10069.jpg"
	especialImage = "/especiales/chuleta de cerdo.jpg"
)

var productSeed = []domain.Product{
	{ID: "ham1", Name: "Leñador Sencilla", Category: domain.CategoryHamburguesas, Price: 12000, Description: "Carne, queso, vegetales frescos y nuestra salsa especial", ImageURL: burgerImage},
	{ID: "ham2", Name: "Mixta", Category: domain.CategoryHamburguesas, Price: 15000, Description: "Carne de res, pollo, queso, tocineta y vegetales frescos", ImageURL: burgerImage},
	{ID: "ham3", Name: "Doble Carne", Category: domain.CategoryHamburguesas, Price: 18000, Description: "Doble porción de carne, doble queso y todas nuestras salsas", ImageURL: burgerImage},
	{ID: "ham4", Name: "Triple Golpe", Category: domain.CategoryHamburguesas, Price: 22000, Description: "Triple carne, triple queso, tocineta y huevo frito", ImageURL: burgerImage},
	{ID: "ham5", Name: "La Criolla", Category: domain.CategoryHamburguesas, Price: 16000, Description: "Carne, queso, aguacate, plátano maduro y salsa tártara", ImageURL: burgerImage},

	{ID: "pic1", Name: "Sencilla", Category: domain.CategoryPicadas, Price: 25000, Description: "Carne, pollo, chorizo, papas a la francesa y patacones", ImageURL: picadaImage},
	{ID: "pic2", Name: "Especial", Category: domain.CategoryPicadas, Price: 35000, Description: "Carne, pollo, chorizo, costillas, morcilla, chicharrón y papas", ImageURL: picadaImage},

	{ID: "per1", Name: "Sencillo", Category: domain.CategoryPerros, Price: 8000, Description: "Salchicha, pan, queso rallado, papas y salsas", ImageURL: perroImage},
	{ID: "per2", Name: "Mechi Pollo", Category: domain.CategoryPerros, Price: 12000, Description: "Salchicha, pollo mechado, queso gratinado y papas trituradas", ImageURL: perroImage},
	{ID: "per3", Name: "Club House", Category: domain.CategoryPerros, Price: 15000, Description: "Doble salchicha, tocineta, huevo de codorniz y queso cheddar", ImageURL: perroImage},

	{ID: "esp1", Name: "Salchipapa", Category: domain.CategoryEspeciales, Price: 12000, Description: "Salchicha, papas a la francesa, queso gratinado y salsas", ImageURL: especialImage},
	{ID: "esp2", Name: "Choripapa", Category: domain.CategoryEspeciales, Price: 14000, Description: "Chorizo, papas a la francesa, queso gratinado y salsas", ImageURL: especialImage},
	{ID: "esp3", Name: "Leña Papa", Category: domain.CategoryEspeciales, Price: 16000, Description: "Carne desmechada, papas a la francesa y queso gratinado", ImageURL: especialImage},
	{ID: "esp4", Name: "Hacha Brava", Category: domain.CategoryEspeciales, Price: 18000, Description: "Pollo, carne, chorizo, papas a la francesa y salsa de ajo", ImageURL: especialImage},
	{ID: "esp5", Name: "La Leña Breva", Category: domain.CategoryEspeciales, Price: 20000, Description: "Mix de carnes, maíz tierno, queso mozzarella y papas criollas", ImageURL: especialImage},
}
