// Package integration exercises the assembled client runtime against
// an in-process stand-in for the commerce platform: an httptest server
// speaking the gateway's REST contract plus the push channel's
// websocket endpoint.
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/catalog"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/shared"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/state"
)

// Pricing the fake platform applies. Totals are the platform's job;
// tests assert the client mirrors these instead of re-deriving them.
var (
	taxRate      = decimal.RequireFromString("0.10")
	flatShipping = decimal.RequireFromString("4.99")
)

// FakePlatform is an in-process commerce platform. It keeps a small
// account, catalog and per-account cart table, answers the REST
// contract the runtime's gateway speaks, and can push channel frames
// to every connected client.
type FakePlatform struct {
	Server *httptest.Server

	t        *testing.T
	upgrader websocket.Upgrader

	upgrades            atomic.Int32
	identityFetches     atomic.Int32
	cartFetches         atomic.Int32
	notificationFetches atomic.Int32
	analyticsFetches    atomic.Int32

	mu             sync.Mutex
	accounts       map[string]*fakeAccount
	sessions       map[string]uuid.UUID
	products       map[uuid.UUID]fakeProduct
	carts          map[uuid.UUID][]state.CartItem
	wishlists      map[uuid.UUID][]state.WishlistItem
	notifications  map[uuid.UUID][]state.Notification
	analytics      state.AnalyticsPatch
	recItems       []state.RecommendedProduct
	recGeneratedAt time.Time
	categories     []catalog.Category
	channelAuths   []string
	conns          []*platformConn
}

type fakeAccount struct {
	password string
	identity state.Identity
}

type fakeProduct struct {
	name      string
	unitPrice decimal.Decimal
	stock     int
	imageURL  string
	vendor    string
	rating    float64
}

// platformConn serializes writes: pongs answered from the read loop
// and pushed frames come from different goroutines.
type platformConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (pc *platformConn) write(messageType int, data []byte) {
	pc.writeMu.Lock()
	defer pc.writeMu.Unlock()
	_ = pc.conn.WriteMessage(messageType, data)
}

// sessionDocument is the body login and register answer with.
type sessionDocument struct {
	Token string         `json:"token"`
	User  state.Identity `json:"user"`
}

// channelFrame matches the push channel's wire layout.
type channelFrame struct {
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"ts"`
}

// NewFakePlatform starts the platform and registers its teardown.
func NewFakePlatform(t *testing.T) *FakePlatform {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fp := &FakePlatform{
		t:             t,
		accounts:      make(map[string]*fakeAccount),
		sessions:      make(map[string]uuid.UUID),
		products:      make(map[uuid.UUID]fakeProduct),
		carts:         make(map[uuid.UUID][]state.CartItem),
		wishlists:     make(map[uuid.UUID][]state.WishlistItem),
		notifications: make(map[uuid.UUID][]state.Notification),
	}
	fp.Server = httptest.NewServer(fp.router())
	t.Cleanup(fp.Close)
	return fp
}

// Close severs push connections and shuts the HTTP surface down. The
// connections go first; their handlers block in reads, and the server
// waits for handlers on close.
func (fp *FakePlatform) Close() {
	fp.DropConnections()
	fp.Server.Close()
}

// ChannelURL is the websocket endpoint clients dial.
func (fp *FakePlatform) ChannelURL() string {
	return "ws" + strings.TrimPrefix(fp.Server.URL, "http") + "/ws"
}

// SeedAccount registers an account and returns the identity the
// platform will hand out for it.
func (fp *FakePlatform) SeedAccount(name, email, password string, role state.Role) state.Identity {
	fp.t.Helper()

	identity := state.Identity{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()
	require.NotContains(fp.t, fp.accounts, email, "Account already seeded")
	fp.accounts[email] = &fakeAccount{password: password, identity: identity}
	return identity
}

// SeedProduct stocks one purchasable product and returns its ID.
func (fp *FakePlatform) SeedProduct(name, price string, stock int) uuid.UUID {
	fp.t.Helper()

	id := uuid.New()
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.products[id] = fakeProduct{
		name:      name,
		unitPrice: decimal.RequireFromString(price),
		stock:     stock,
		imageURL:  "https://cdn.example.com/products/" + id.String() + ".jpg",
		vendor:    "Acme Goods",
		rating:    4.5,
	}
	return id
}

// SeedNotification prepends an unread notification to the account's feed.
func (fp *FakePlatform) SeedNotification(accountID uuid.UUID, content, kind string) state.Notification {
	fp.t.Helper()

	userID := accountID
	n := state.Notification{
		ID:        uuid.New(),
		UserID:    &userID,
		Content:   content,
		Type:      kind,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.notifications[accountID] = append([]state.Notification{n}, fp.notifications[accountID]...)
	return n
}

// SetAnalytics replaces the admin dashboard document.
func (fp *FakePlatform) SetAnalytics(patch state.AnalyticsPatch) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.analytics = patch
}

// SetRecommendations replaces the personalized feed.
func (fp *FakePlatform) SetRecommendations(items []state.RecommendedProduct) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.recItems = make([]state.RecommendedProduct, len(items))
	copy(fp.recItems, items)
	fp.recGeneratedAt = time.Now().UTC().Truncate(time.Second)
}

// SetCategories replaces the catalog's category list.
func (fp *FakePlatform) SetCategories(categories []catalog.Category) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.categories = make([]catalog.Category, len(categories))
	copy(fp.categories, categories)
}

// BlockAccount marks the account blocked, as an administrator would.
// Existing sessions stay in the table; the platform signals them with
// a user.blocked push instead of dropping them.
func (fp *FakePlatform) BlockAccount(email string) {
	fp.t.Helper()

	fp.mu.Lock()
	defer fp.mu.Unlock()
	acct, ok := fp.accounts[email]
	require.True(fp.t, ok, "Account not seeded: %s", email)
	acct.identity.Blocked = true
}

// Push broadcasts one channel frame to every connected client.
func (fp *FakePlatform) Push(event string, payload any) {
	fp.t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(fp.t, err, "Failed to encode push payload")
	frame, err := json.Marshal(channelFrame{Event: event, Payload: raw, Timestamp: time.Now().UnixMilli()})
	require.NoError(fp.t, err, "Failed to encode push frame")

	fp.mu.Lock()
	conns := make([]*platformConn, len(fp.conns))
	copy(conns, fp.conns)
	fp.mu.Unlock()

	for _, pc := range conns {
		pc.write(websocket.TextMessage, frame)
	}
}

// DropConnections severs every push connection server-side, forcing
// clients into their reconnect path.
func (fp *FakePlatform) DropConnections() {
	fp.mu.Lock()
	conns := make([]*platformConn, len(fp.conns))
	copy(conns, fp.conns)
	fp.mu.Unlock()

	for _, pc := range conns {
		_ = pc.conn.Close()
	}
}

// ActiveConnections reports how many push connections are established.
func (fp *FakePlatform) ActiveConnections() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return len(fp.conns)
}

// Upgrades counts websocket handshakes that completed.
func (fp *FakePlatform) Upgrades() int32 { return fp.upgrades.Load() }

// IdentityFetches counts GET /api/auth/me calls.
func (fp *FakePlatform) IdentityFetches() int32 { return fp.identityFetches.Load() }

// CartFetches counts GET /api/cart calls.
func (fp *FakePlatform) CartFetches() int32 { return fp.cartFetches.Load() }

// NotificationFetches counts GET /api/notifications calls.
func (fp *FakePlatform) NotificationFetches() int32 { return fp.notificationFetches.Load() }

// AnalyticsFetches counts GET /api/admin/analytics calls.
func (fp *FakePlatform) AnalyticsFetches() int32 { return fp.analyticsFetches.Load() }

// LastChannelAuth returns the Authorization header of the most recent
// websocket handshake.
func (fp *FakePlatform) LastChannelAuth() string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	if len(fp.channelAuths) == 0 {
		return ""
	}
	return fp.channelAuths[len(fp.channelAuths)-1]
}

func (fp *FakePlatform) router() *gin.Engine {
	r := gin.New()

	r.POST("/api/auth/login", fp.handleLogin)
	r.POST("/api/auth/register", fp.handleRegister)
	r.GET("/api/products", fp.handleSearchProducts)
	r.GET("/api/categories", fp.handleCategories)
	r.GET("/ws", fp.handleChannel)

	authed := r.Group("/", fp.requireSession)
	authed.GET("/api/auth/me", fp.handleCurrentUser)
	authed.POST("/api/auth/logout", fp.handleLogout)
	authed.GET("/api/cart", fp.handleCart)
	authed.POST("/api/cart/items", fp.handleAddCartItem)
	authed.PATCH("/api/cart/items/:id", fp.handleUpdateCartItem)
	authed.DELETE("/api/cart/items/:id", fp.handleRemoveCartItem)
	authed.GET("/api/wishlist", fp.handleWishlist)
	authed.POST("/api/wishlist/:id", fp.handleAddWishlistItem)
	authed.DELETE("/api/wishlist/:id", fp.handleRemoveWishlistItem)
	authed.GET("/api/recommendations", fp.handleRecommendations)
	authed.GET("/api/notifications", fp.handleNotifications)
	authed.PATCH("/api/notifications/:id/read", fp.handleMarkNotificationRead)
	authed.POST("/api/notifications/read-all", fp.handleMarkAllNotificationsRead)
	authed.GET("/api/admin/analytics", fp.handleAnalytics)
	authed.PATCH("/api/admin/categories/:id", fp.handleMoveCategory)

	return r
}

const accountKey = "account"

func (fp *FakePlatform) requireSession(c *gin.Context) {
	id, ok := fp.lookupSession(c.GetHeader("Authorization"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, shared.ErrSessionExpired)
		return
	}
	c.Set(accountKey, id)
}

func (fp *FakePlatform) lookupSession(header string) (uuid.UUID, bool) {
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		return uuid.Nil, false
	}
	fp.mu.Lock()
	defer fp.mu.Unlock()
	id, ok := fp.sessions[token]
	return id, ok
}

func accountID(c *gin.Context) uuid.UUID {
	return c.MustGet(accountKey).(uuid.UUID)
}

func (fp *FakePlatform) accountLocked(id uuid.UUID) (*fakeAccount, bool) {
	for _, acct := range fp.accounts {
		if acct.identity.ID == id {
			return acct, true
		}
	}
	return nil, false
}

func (fp *FakePlatform) issueSessionLocked(accountID uuid.UUID) string {
	token := "tok-" + uuid.NewString()
	fp.sessions[token] = accountID
	return token
}

func (fp *FakePlatform) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	acct, ok := fp.accounts[req.Email]
	if !ok || acct.password != req.Password {
		c.JSON(http.StatusUnauthorized, shared.NewDomainError("INVALID_CREDENTIALS", "Email or password is incorrect."))
		return
	}
	if acct.identity.Blocked {
		c.JSON(http.StatusForbidden, shared.ErrAccountBlocked)
		return
	}
	token := fp.issueSessionLocked(acct.identity.ID)
	c.JSON(http.StatusOK, sessionDocument{Token: token, User: acct.identity})
}

func (fp *FakePlatform) handleRegister(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	if _, exists := fp.accounts[req.Email]; exists {
		c.JSON(http.StatusConflict, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists."))
		return
	}
	identity := state.Identity{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Role:      state.RoleCustomer,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	fp.accounts[req.Email] = &fakeAccount{password: req.Password, identity: identity}
	token := fp.issueSessionLocked(identity.ID)
	c.JSON(http.StatusOK, sessionDocument{Token: token, User: identity})
}

func (fp *FakePlatform) handleCurrentUser(c *gin.Context) {
	fp.identityFetches.Add(1)

	fp.mu.Lock()
	acct, ok := fp.accountLocked(accountID(c))
	if !ok {
		fp.mu.Unlock()
		c.JSON(http.StatusUnauthorized, shared.ErrSessionExpired)
		return
	}
	identity := acct.identity
	fp.mu.Unlock()

	if identity.Blocked {
		c.JSON(http.StatusForbidden, shared.ErrAccountBlocked)
		return
	}
	c.JSON(http.StatusOK, identity)
}

func (fp *FakePlatform) handleLogout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	fp.mu.Lock()
	delete(fp.sessions, token)
	fp.mu.Unlock()
	c.Status(http.StatusNoContent)
}

// cartDocumentLocked builds the full cart body: the platform computes
// totals, the client only mirrors them.
func (fp *FakePlatform) cartDocumentLocked(accountID uuid.UUID) state.CartPatch {
	lines := fp.carts[accountID]
	items := make([]state.CartItem, len(lines))
	copy(items, lines)

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	tax := subtotal.Mul(taxRate).Round(2)
	shipping := decimal.Zero
	if len(items) > 0 {
		shipping = flatShipping
	}
	total := subtotal.Add(tax).Add(shipping)

	return state.CartPatch{Items: &items, Subtotal: &subtotal, Tax: &tax, Shipping: &shipping, Total: &total}
}

func (fp *FakePlatform) handleCart(c *gin.Context) {
	fp.cartFetches.Add(1)

	fp.mu.Lock()
	doc := fp.cartDocumentLocked(accountID(c))
	fp.mu.Unlock()
	c.JSON(http.StatusOK, doc)
}

func (fp *FakePlatform) handleAddCartItem(c *gin.Context) {
	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int       `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	product, ok := fp.products[req.ProductID]
	if !ok {
		c.JSON(http.StatusNotFound, shared.ErrNotFound)
		return
	}

	id := accountID(c)
	lines := fp.carts[id]
	current := 0
	for _, line := range lines {
		if line.ProductID == req.ProductID {
			current = line.Quantity
			break
		}
	}
	if current+req.Quantity > product.stock {
		c.JSON(http.StatusConflict, shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock to add this quantity."))
		return
	}

	if current > 0 {
		for i := range lines {
			if lines[i].ProductID == req.ProductID {
				lines[i].Quantity = current + req.Quantity
			}
		}
	} else {
		lines = append(lines, state.CartItem{
			ProductID:    req.ProductID,
			Name:         product.name,
			UnitPrice:    product.unitPrice,
			Quantity:     req.Quantity,
			StockCeiling: product.stock,
			ImageURL:     product.imageURL,
			VendorName:   product.vendor,
		})
	}
	fp.carts[id] = lines
	c.JSON(http.StatusOK, fp.cartDocumentLocked(id))
}

func (fp *FakePlatform) handleUpdateCartItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	id := accountID(c)
	lines := fp.carts[id]
	for i := range lines {
		if lines[i].ProductID != productID {
			continue
		}
		if req.Quantity > lines[i].StockCeiling {
			c.JSON(http.StatusConflict, shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock for this quantity."))
			return
		}
		lines[i].Quantity = req.Quantity
		fp.carts[id] = lines
		c.JSON(http.StatusOK, fp.cartDocumentLocked(id))
		return
	}
	c.JSON(http.StatusNotFound, shared.ErrNotFound)
}

func (fp *FakePlatform) handleRemoveCartItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	id := accountID(c)
	lines := fp.carts[id]
	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	fp.carts[id] = kept
	c.JSON(http.StatusOK, fp.cartDocumentLocked(id))
}

func (fp *FakePlatform) wishlistDocumentLocked(accountID uuid.UUID) state.WishlistPatch {
	saved := fp.wishlists[accountID]
	items := make([]state.WishlistItem, len(saved))
	copy(items, saved)
	return state.WishlistPatch{Items: &items}
}

func (fp *FakePlatform) handleWishlist(c *gin.Context) {
	fp.mu.Lock()
	doc := fp.wishlistDocumentLocked(accountID(c))
	fp.mu.Unlock()
	c.JSON(http.StatusOK, doc)
}

func (fp *FakePlatform) handleAddWishlistItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	product, ok := fp.products[productID]
	if !ok {
		c.JSON(http.StatusNotFound, shared.ErrNotFound)
		return
	}

	id := accountID(c)
	for _, item := range fp.wishlists[id] {
		if item.ProductID == productID {
			c.JSON(http.StatusOK, fp.wishlistDocumentLocked(id))
			return
		}
	}
	fp.wishlists[id] = append(fp.wishlists[id], state.WishlistItem{
		ProductID:  productID,
		Name:       product.name,
		UnitPrice:  product.unitPrice,
		ImageURL:   product.imageURL,
		InStock:    product.stock > 0,
		VendorName: product.vendor,
		AddedAt:    time.Now().UTC().Truncate(time.Second),
	})
	c.JSON(http.StatusOK, fp.wishlistDocumentLocked(id))
}

func (fp *FakePlatform) handleRemoveWishlistItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	id := accountID(c)
	saved := fp.wishlists[id]
	kept := saved[:0]
	for _, item := range saved {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	fp.wishlists[id] = kept
	c.JSON(http.StatusOK, fp.wishlistDocumentLocked(id))
}

func (fp *FakePlatform) handleRecommendations(c *gin.Context) {
	fp.mu.Lock()
	items := make([]state.RecommendedProduct, len(fp.recItems))
	copy(items, fp.recItems)
	generated := fp.recGeneratedAt
	fp.mu.Unlock()
	c.JSON(http.StatusOK, state.RecommendationPatch{Items: &items, GeneratedAt: &generated})
}

func (fp *FakePlatform) handleSearchProducts(c *gin.Context) {
	query := strings.ToLower(c.Query("query"))

	fp.mu.Lock()
	results := []state.ProductSummary{}
	for id, p := range fp.products {
		if query != "" && !strings.Contains(strings.ToLower(p.name), query) {
			continue
		}
		results = append(results, state.ProductSummary{
			ProductID:  id,
			Name:       p.name,
			UnitPrice:  p.unitPrice,
			ImageURL:   p.imageURL,
			InStock:    p.stock > 0,
			VendorName: p.vendor,
			Rating:     p.rating,
		})
	}
	fp.mu.Unlock()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	total := len(results)
	c.JSON(http.StatusOK, state.SearchPatch{Results: &results, TotalHits: &total})
}

func (fp *FakePlatform) handleNotifications(c *gin.Context) {
	fp.notificationFetches.Add(1)

	fp.mu.Lock()
	feed := fp.notifications[accountID(c)]
	items := make([]state.Notification, len(feed))
	copy(items, feed)
	fp.mu.Unlock()
	c.JSON(http.StatusOK, state.NotificationPatch{Items: &items})
}

func (fp *FakePlatform) handleMarkNotificationRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	feed := fp.notifications[accountID(c)]
	for i := range feed {
		if feed[i].ID == notificationID {
			feed[i].IsRead = true
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, shared.ErrNotFound)
}

func (fp *FakePlatform) handleMarkAllNotificationsRead(c *gin.Context) {
	fp.mu.Lock()
	feed := fp.notifications[accountID(c)]
	for i := range feed {
		feed[i].IsRead = true
	}
	fp.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (fp *FakePlatform) handleAnalytics(c *gin.Context) {
	fp.analyticsFetches.Add(1)

	fp.mu.Lock()
	acct, ok := fp.accountLocked(accountID(c))
	doc := fp.analytics
	fp.mu.Unlock()

	if !ok || acct.identity.Role != state.RoleAdmin {
		c.JSON(http.StatusForbidden, shared.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (fp *FakePlatform) handleCategories(c *gin.Context) {
	fp.mu.Lock()
	categories := make([]catalog.Category, len(fp.categories))
	copy(categories, fp.categories)
	fp.mu.Unlock()
	c.JSON(http.StatusOK, categories)
}

func (fp *FakePlatform) handleMoveCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}
	var req struct {
		ParentID *uuid.UUID `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, shared.ErrInvalidInput)
		return
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	byID := make(map[uuid.UUID]int, len(fp.categories))
	for i, cat := range fp.categories {
		byID[cat.ID] = i
	}
	idx, ok := byID[categoryID]
	if !ok {
		c.JSON(http.StatusNotFound, shared.ErrNotFound)
		return
	}

	// Walk up from the proposed parent; reaching the moved category
	// means the move would close a cycle.
	for cur := req.ParentID; cur != nil; {
		if *cur == categoryID {
			c.JSON(http.StatusConflict, shared.ErrCircularReference)
			return
		}
		parentIdx, ok := byID[*cur]
		if !ok {
			c.JSON(http.StatusNotFound, shared.ErrNotFound)
			return
		}
		cur = fp.categories[parentIdx].ParentID
	}
	fp.categories[idx].ParentID = req.ParentID

	categories := make([]catalog.Category, len(fp.categories))
	copy(categories, fp.categories)
	c.JSON(http.StatusOK, categories)
}

// handleChannel upgrades authenticated clients and then blocks reading
// the connection, so gorilla answers keepalive pings through the
// custom handler until the peer goes away.
func (fp *FakePlatform) handleChannel(c *gin.Context) {
	auth := c.GetHeader("Authorization")
	if _, ok := fp.lookupSession(auth); !ok {
		c.JSON(http.StatusUnauthorized, shared.ErrSessionExpired)
		return
	}

	conn, err := fp.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	fp.upgrades.Add(1)

	pc := &platformConn{conn: conn}
	conn.SetPingHandler(func(appData string) error {
		pc.writeMu.Lock()
		defer pc.writeMu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	fp.mu.Lock()
	fp.channelAuths = append(fp.channelAuths, auth)
	fp.conns = append(fp.conns, pc)
	fp.mu.Unlock()

	defer func() {
		fp.removeConn(pc)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (fp *FakePlatform) removeConn(pc *platformConn) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	for i, cur := range fp.conns {
		if cur == pc {
			fp.conns = append(fp.conns[:i], fp.conns[i+1:]...)
			return
		}
	}
}
