package v1

import (
	"net/http"

	"github.com/finadvisor/backend/internal/budget"
	"github.com/gin-gonic/gin"
)

// RegisterBudgetRoutes registers the budget routes with the
// RouterGroup that is passed. All of them require authentication.
func RegisterBudgetRoutes(r *gin.RouterGroup, service *budget.Service) {
	r.GET("/dashboard", GetDashboard(service))
	r.GET("/info", GetInfo(service))

	{
		r.GET("/items", GetItems(service))
		r.POST("/items", CreateItem(service))
		r.PATCH("/items/:id", UpdateItem(service))
		r.DELETE("/items/:id", DeleteItem(service))
	}
}

// @Summary      Dashboard for a year
// @Description  Returns the aggregated totals of the year
// @Tags         Budget
// @Produce      json
// @Param        year  query     int  true  "Year to aggregate"
// @Success      200   {object}  DashboardResponse
// @Failure      400   {object}  httpError
// @Router       /v1/budget/dashboard [get]
func GetDashboard(service *budget.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, ok := parseYear(c, true)
		if !ok {
			return
		}

		result, err := service.Dashboard(c.Request.Context(), owner(c), year)
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(http.StatusOK, DashboardResponse{Data: result})
	}
}

// @Summary      Budget info
// @Description  Returns the items and the available years. Without a year parameter all items are returned
// @Tags         Budget
// @Produce      json
// @Param        year  query     int  false  "Restrict items to a year"
// @Success      200   {object}  InfoResponse
// @Failure      400   {object}  httpError
// @Router       /v1/budget/info [get]
func GetInfo(service *budget.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, ok := parseYear(c, false)
		if !ok {
			return
		}

		info, err := service.Info(c.Request.Context(), owner(c), year)
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(http.StatusOK, InfoResponse{Data: info})
	}
}

// @Summary      Items by month
// @Description  Returns the year's items split by category, optionally filtered to months
// @Tags         Budget
// @Produce      json
// @Param        year    query     int     true   "Year"
// @Param        months  query     string  false  "Comma-separated month numbers or \"all\""
// @Success      200     {object}  MonthItemsResponse
// @Failure      400     {object}  httpError
// @Router       /v1/budget/items [get]
func GetItems(service *budget.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, ok := parseYear(c, true)
		if !ok {
			return
		}

		months, ok := parseMonths(c)
		if !ok {
			return
		}

		items, err := service.ItemsByMonth(c.Request.Context(), owner(c), year, months)
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(http.StatusOK, MonthItemsResponse{Data: items})
	}
}

// @Summary      Create an item
// @Description  Creates a budget item. Scope, cadence and category accept Chinese and English synonyms
// @Tags         Budget
// @Accept       json
// @Produce      json
// @Param        item  body      ItemEditable  true  "Item"
// @Success      201   {object}  ItemResponse
// @Failure      400   {object}  httpError
// @Router       /v1/budget/items [post]
func CreateItem(service *budget.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var editable ItemEditable
		if err := bindData(c, &editable); err != nil {
			return
		}

		item, err := service.Add(c.Request.Context(), owner(c), editable.draft())
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, ItemResponse{Data: item})
	}
}

// @Summary      Update an item
// @Description  Updates the supplied fields of a budget item
// @Tags         Budget
// @Accept       json
// @Produce      json
// @Param        id    path      string      true  "ID of the item"
// @Param        item  body      ItemUpdate  true  "Fields to update"
// @Success      200   {object}  ItemResponse
// @Failure      400   {object}  httpError
// @Failure      404   {object}  httpError
// @Router       /v1/budget/items/{id} [patch]
func UpdateItem(service *budget.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var update ItemUpdate
		if err := bindData(c, &update); err != nil {
			return
		}

		item, err := service.Update(c.Request.Context(), owner(c), id, update.update())
		if err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(http.StatusOK, ItemResponse{Data: item})
	}
}

// @Summary      Delete an item
// @Tags         Budget
// @Param        id  path  string  true  "ID of the item"
// @Success      204
// @Failure      400  {object}  httpError
// @Failure      404  {object}  httpError
// @Router       /v1/budget/items/{id} [delete]
func DeleteItem(service *budget.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := service.Delete(c.Request.Context(), owner(c), id); err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(http.StatusNoContent, nil)
	}
}
