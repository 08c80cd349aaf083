// Package fixtures supplies the data scenarios type into the storefront:
// fixed records for repeatable flows and generated registrations that never
// collide within a run.
package fixtures

// GuestCheckout is the contact and shipping data for a guest order.
type GuestCheckout struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zipcode   string `json:"zipcode"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	State     string `json:"state"`
	Product   string `json:"product_search"`
}

// Registration is one account-creation form submission. Empty optional
// fields are left blank on the form.
type Registration struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Telephone       string `json:"telephone,omitempty"`
	Fax             string `json:"fax,omitempty"`
	Company         string `json:"company,omitempty"`
	Address1        string `json:"address_1"`
	Address2        string `json:"address_2,omitempty"`
	City            string `json:"city"`
	Region          string `json:"region"`
	Zipcode         string `json:"zipcode"`
	Country         string `json:"country"`
	LoginName       string `json:"login_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Newsletter      bool   `json:"newsletter"`
	AgreePrivacy    bool   `json:"agree_privacy"`
}

// Mandatory returns a copy with every optional field cleared.
func (r Registration) Mandatory() Registration {
	r.Telephone = ""
	r.Fax = ""
	r.Company = ""
	r.Address2 = ""
	r.Newsletter = false
	return r
}

// OnlyOptional returns a copy with every mandatory field cleared, leaving
// the optional ones and the privacy agreement.
func (r Registration) OnlyOptional() Registration {
	return Registration{
		Telephone:    r.Telephone,
		Fax:          r.Fax,
		Company:      r.Company,
		Address2:     r.Address2,
		Newsletter:   r.Newsletter,
		AgreePrivacy: r.AgreePrivacy,
	}
}

// RegisteredUser is a pre-existing account.
type RegisteredUser struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	LoginName string `json:"login_name"`
}

// RegisteredCheckout is what a signed-in shopper buys.
type RegisteredCheckout struct {
	Product string `json:"product_search"`
	Email   string `json:"email"`
}

// ProductChoice is a search term with fallbacks for catalogs that lack it.
type ProductChoice struct {
	Term         string   `json:"search"`
	Alternatives []string `json:"alternatives"`
}

// Terms lists the primary term followed by its alternatives.
func (p ProductChoice) Terms() []string {
	return append([]string{p.Term}, p.Alternatives...)
}

// MultipleProducts drives the multi-product guest order.
type MultipleProducts struct {
	Products []ProductChoice `json:"products"`
	Guest    GuestCheckout   `json:"guest"`
}

// ContactInquiry is a contact-us form submission.
type ContactInquiry struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Enquiry   string `json:"enquiry"`
}

const (
	DefaultPassword    = "Test12345!"
	MismatchedPassword = "DifferentPassword123!"
)

func GuestCheckoutData() GuestCheckout {
	return GuestCheckout{
		Email:     "testguest@example.com",
		FirstName: "John",
		LastName:  "Doe",
		Address:   "123 Main Street",
		City:      "New York",
		Zipcode:   "10001",
		Phone:     "555-1234",
		Country:   "United States",
		State:     "New York",
		Product:   "shirt",
	}
}

func RegisteredUserData() RegisteredUser {
	return RegisteredUser{
		Email:     "registereduser@example.com",
		Password:  "TestPassword123!",
		LoginName: "registereduser",
	}
}

func RegisteredCheckoutData() RegisteredCheckout {
	return RegisteredCheckout{
		Product: "conditioner",
		Email:   "registereduser@example.com",
	}
}

func MultipleProductsData() MultipleProducts {
	return MultipleProducts{
		Products: []ProductChoice{
			{Term: "hands", Alternatives: []string{"conditioner", "shampoo", "cream"}},
			{Term: "perfume", Alternatives: []string{"makeup", "shoes", "apparel"}},
		},
		Guest: GuestCheckout{
			Email:     "testmultiproduct@example.com",
			FirstName: "Jane",
			LastName:  "Smith",
			Address:   "456 Oak Avenue",
			City:      "Los Angeles",
			Zipcode:   "90001",
			Phone:     "555-5678",
			Country:   "United States",
			State:     "California",
		},
	}
}

func ContactInquiryData() ContactInquiry {
	return ContactInquiry{
		FirstName: "John",
		Email:     "testguest@example.com",
		Enquiry:   "I'm interested in buying hair conditioner on bulk. Would you give me a sweet discount? Thanks",
	}
}
