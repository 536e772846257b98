package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the ChopNow API.

The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create customer account
- POST "/auth/login" - Access customer account
- POST "/auth/verify-otp" - Verify account with a one-time code
- POST "/auth/resend-otp" - Request a new verification code

USER
- GET "/user/me" - View your profile
- GET "/user/by-referral-code/:code" - Look up a referral code

FOOD
- GET "/food" - Browse the menu
- GET "/food/:id" - Get a menu item
- GET "/food/category/:category" - Browse a category
- POST "/food" - Create menu item (admin)
- PUT "/food/:id" - Update menu item (admin)
- DELETE "/food/:id" - Remove menu item (admin)
- POST "/food/:id/image" - Upload menu item photo (admin)

CART
- GET "/cart" - View your cart
- POST "/cart/items" - Add an item to your cart
- PUT "/cart/items/:cartItemId" - Change a line's quantity
- DELETE "/cart/items/:cartItemId" - Remove a line
- DELETE "/cart" - Empty your cart

ORDER
- POST "/order" - Place an order from your cart
- GET "/order" - List your orders
- GET "/order/:orderId" - Get one of your orders
- POST "/order/:orderId/cancel" - Cancel a pending order
- GET "/admin/orders" - List all orders (admin)
- GET "/admin/orders/number/:orderNumber" - Look up an order (admin)
- PATCH "/admin/orders/:orderId/status" - Progress an order (admin)
- GET "/admin/orders/undelivered" - Count open orders (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
