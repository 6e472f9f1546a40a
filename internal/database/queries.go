package database

// Order queries
const (
	InsertBillSQL = `
		INSERT INTO orders (id, username, email, phone, restaurant, items, delivery_charge,
			subtotal, total_amount, payment_method, confirmation, bill_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	GetBillByIDSQL = `
		SELECT id, username, email, phone, restaurant, items, delivery_charge,
			   subtotal, total_amount, payment_method, confirmation, bill_text, created_at
		FROM orders WHERE id = $1`
)

// User queries
const (
	InsertUserSQL = `
		INSERT INTO users (username, password, name, phone, email, address, city)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	GetUserByUsernameSQL = `
		SELECT username, password, name, phone, email, address, city
		FROM users WHERE username = $1`

	UserExistsSQL = `
		SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
)

// Hotel queries
const (
	NextHotelIDSQL = `
		SELECT COALESCE(MAX(id), 0) + 1 FROM hotels`

	InsertHotelSQL = `
		INSERT INTO hotels (id, name, address, city, menu)
		VALUES ($1, $2, $3, $4, $5)`

	ListHotelsSQL = `
		SELECT id, name, address, city, menu, delivery_person
		FROM hotels ORDER BY id ASC`

	GetHotelByIDSQL = `
		SELECT id, name, address, city, menu, delivery_person
		FROM hotels WHERE id = $1`

	AppendMenuItemSQL = `
		UPDATE hotels SET menu = menu || $2::jsonb WHERE id = $1`

	SetDeliveryPersonSQL = `
		UPDATE hotels SET delivery_person = $2::jsonb WHERE id = $1`
)
