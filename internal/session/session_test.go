package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lacasa/internal/cart"
	"lacasa/internal/domain"
)

func TestNew(t *testing.T) {
	s := New()
	assert.Equal(t, ScreenHome, s.Screen)
	assert.Equal(t, domain.CategoryPizzas, s.Category)
	assert.Equal(t, NoDialog{}, s.Dialog)
	assert.Equal(t, 1, s.Picker.Quantity)
	assert.Empty(t, s.Cart.Items)
}

func TestNotices_TakenOnce(t *testing.T) {
	s := New()
	s.Notify(NoticeSuccess, "Mixta agregado al carrito")
	s.Notify(NoticeError, "Selecciona al menos un sabor")

	got := s.TakeNotices()
	require.Len(t, got, 2)
	assert.Equal(t, NoticeSuccess, got[0].Kind)
	assert.Equal(t, "Selecciona al menos un sabor", got[1].Text)
	assert.Empty(t, s.TakeNotices())
}

func TestCloseDialog_ResetsUnfinishedPizza(t *testing.T) {
	s := New()
	s.Dialog = FlavorDialog{SizeID: "mediana"}
	s.Picker = Picker{SizeID: "mediana", Flavors: []string{"Mixta"}, Quantity: 3}

	s.CloseDialog()
	assert.Equal(t, NoDialog{}, s.Dialog)
	assert.Equal(t, Picker{Quantity: 1}, s.Picker)

	s.Checkout = cart.Customer{Name: "Ana"}
	s.Dialog = CheckoutDialog{}
	s.CloseDialog()
	assert.Equal(t, "Ana", s.Checkout.Name, "closing checkout keeps what was typed")
}

func TestPicker_Selected(t *testing.T) {
	p := Picker{Flavors: []string{"Margarita", "Mixta"}}
	assert.True(t, p.Selected("Mixta"))
	assert.False(t, p.Selected("Ranchera"))
}

func TestSessionJSON_KeepsDialog(t *testing.T) {
	dialogs := []Dialog{
		NoDialog{},
		FlavorDialog{SizeID: "grande"},
		CheckoutDialog{},
		ImageDialog{URL: "/media/picadas/10077.jpg", Alt: "Especial"},
	}
	for _, d := range dialogs {
		t.Run(d.Kind(), func(t *testing.T) {
			in := New()
			in.Dialog = d
			in.Screen = ScreenMenu
			in.Category = domain.CategoryPicadas
			in.Cart.Items = []cart.LineItem{{ID: "x", ProductID: "pic2", Name: "Especial", Price: 35000, Quantity: 2, Category: "picadas"}}
			in.Notify(NoticeSuccess, "ok")

			raw, err := json.Marshal(in)
			require.NoError(t, err)

			var out Session
			require.NoError(t, json.Unmarshal(raw, &out))
			assert.Equal(t, in, out)
		})
	}
}

func TestSessionJSON_NilDialogReadsBackAsNone(t *testing.T) {
	raw, err := json.Marshal(Session{})
	require.NoError(t, err)

	var out Session
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, NoDialog{}, out.Dialog)
}

func TestSessionJSON_UnknownDialog(t *testing.T) {
	var out Session
	err := json.Unmarshal([]byte(`{"dialog":{"kind":"popup"}}`), &out)
	assert.Error(t, err)
}
