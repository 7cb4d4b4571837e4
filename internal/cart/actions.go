package cart

// Action is a request to change the cart. The set is closed: only the types in
// this file implement it.
type Action interface {
	// Name is used for logs and metrics.
	Name() string
	isAction()
}

// AddItem merges Item into a matching entry or appends it as a new one.
type AddItem struct{ Item LineItem }

// RemoveItem drops the entry with ID.
type RemoveItem struct{ ID string }

// UpdateQuantity sets an entry's quantity. Zero or less removes it.
type UpdateQuantity struct {
	ID       string
	Quantity int
}

// ToggleCart flips the panel visibility.
type ToggleCart struct{}

// ClearCart empties the entries and keeps everything else.
type ClearCart struct{}

// SetCustomer remembers the last customer who checked out.
type SetCustomer struct{ Customer Customer }

func (AddItem) Name() string        { return "add_item" }
func (RemoveItem) Name() string     { return "remove_item" }
func (UpdateQuantity) Name() string { return "update_quantity" }
func (ToggleCart) Name() string     { return "toggle_cart" }
func (ClearCart) Name() string      { return "clear_cart" }
func (SetCustomer) Name() string    { return "set_customer" }

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (ToggleCart) isAction()     {}
func (ClearCart) isAction()      {}
func (SetCustomer) isAction()    {}
