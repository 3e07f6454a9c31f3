package router

// Route is one entry of the view table.
type Route struct {
	Path         string
	Name         string
	Title        string
	RequiresAuth bool
}

// Route names.
const (
	Home        = "home"
	Login       = "login"
	Signup      = "signup"
	Products    = "products"
	Commodities = "commodities"
	Youtube     = "youtube"
	Map         = "map"
	Community   = "community"
	Profile     = "profile"
	Recommend   = "recommend"
)

// Routes is the application's view table.
var Routes = []Route{
	{Path: "/", Name: Home, Title: "홈"},
	{Path: "/login", Name: Login, Title: "로그인"},
	{Path: "/signup", Name: Signup, Title: "회원가입"},
	{Path: "/products", Name: Products, Title: "금융상품"},
	{Path: "/commodities", Name: Commodities, Title: "현물 시세"},
	{Path: "/youtube", Name: Youtube, Title: "금융 영상"},
	{Path: "/map", Name: Map, Title: "은행 찾기"},
	{Path: "/community", Name: Community, Title: "커뮤니티"},
	{Path: "/profile", Name: Profile, Title: "내 정보", RequiresAuth: true},
	{Path: "/recommend", Name: Recommend, Title: "상품 추천", RequiresAuth: true},
}
