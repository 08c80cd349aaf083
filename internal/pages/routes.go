package pages

// Storefront paths relative to the base URL.
const (
	PathHome            = "index.php?rt=index/home"
	PathSearch          = "index.php?rt=product/search"
	PathCart            = "index.php?rt=checkout/cart"
	PathCheckout        = "index.php?rt=checkout/checkout"
	PathCheckoutGuest   = "index.php?rt=checkout/guest_step_1"
	PathCheckoutConfirm = "index.php?rt=checkout/confirm"
	PathCheckoutSuccess = "index.php?rt=checkout/success"
	PathLogin           = "index.php?rt=account/login"
	PathLogout          = "index.php?rt=account/logout"
	PathRegister        = "index.php?rt=account/create"
	PathRegisterSuccess = "index.php?rt=account/success"
	PathAccount         = "index.php?rt=account/account"
	PathContact         = "index.php?rt=content/contact"
	PathContactSuccess  = "index.php?rt=content/contact/success"
	PathProduct         = "index.php?rt=product/product"
	PathCategory        = "index.php?rt=product/category"
	PathContent         = "index.php?rt=content/content"
)

// URL fragments identifying a screen regardless of host.
const (
	FragmentCart     = "rt=checkout/cart"
	FragmentCheckout = "rt=checkout"
	FragmentLogin    = "rt=account/login"
	FragmentAccount  = "rt=account/account"
	FragmentProduct  = "rt=product/product"
	FragmentSuccess  = "rt=checkout/success"
	FragmentContact  = "rt=content/contact"
)

// routeSearch is the search results route, as carried in the rt parameter.
const routeSearch = "product/search"
