package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/kopihub/kopihub/internal/domain"
	"github.com/kopihub/kopihub/internal/webserver"
	"github.com/kopihub/kopihub/pkg/common"
)

func registerProductRoutes() {
	webserver.PubGET("/product", listProducts)
	webserver.PubGET("/product/:id", getProduct)
	webserver.AdminPOST("/product", createProduct)
	webserver.AdminPUT("/product/:id", updateProduct)
	webserver.AdminDELETE("/product/:id", deleteProduct)
}

// whitelist of sort modes mapped to ORDER BY fragments; unknown modes are
// a validation error, never interpolated into SQL
var productSortModes = map[string]string{
	"cheapest": "price ASC",
	"priciest": "price DESC",
	"a-z":      "product_name ASC",
	"z-a":      "product_name DESC",
	"latest":   "created_at DESC",
	"longest":  "created_at ASC",
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c, 6)

	db := GetDB(c).Model(&domain.Product{})

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = db.Where("product_name ILIKE ?", "%"+q+"%")
	}
	if cat := strings.TrimSpace(c.QueryParam("category")); cat != "" {
		db = db.Where("category_id = ?", cat)
	}
	if min := strings.TrimSpace(c.QueryParam("min_price")); min != "" {
		db = db.Where("price >= ?", min)
	}
	if max := strings.TrimSpace(c.QueryParam("max_price")); max != "" {
		db = db.Where("price <= ?", max)
	}

	orderBy := "id DESC"
	if sort := strings.TrimSpace(c.QueryParam("sort")); sort != "" {
		mode, okay := productSortModes[strings.ToLower(sort)]
		if !okay {
			return fail(c, http.StatusBadRequest, "Error",
				"Sort invalid options. Allowed options are: cheapest, priciest, a-z, z-a, latest, longest.", nil)
		}
		orderBy = mode
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query products", nil)
	}

	var rows []domain.Product
	if err := db.Order(orderBy).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query products", nil)
	}
	return paged(c, rows, total, page, pageSize)
}

type productDetail struct {
	domain.Product
	Images []domain.ProductImage `json:"images"`
	Sizes  []domain.ProductSize  `json:"sizes,omitempty"`
}

// getProduct returns the product with its images and the selectable size
// tiers so the detail page renders in one request.
func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid product ID", nil)
	}

	var product domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&product).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Error", "Product does not exist", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query product", nil)
	}

	var images []domain.ProductImage
	if err := GetDB(c).Where("product_id = ?", id).Order("id ASC").Find(&images).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query product images", nil)
	}

	var sizes []domain.ProductSize
	if err := GetDB(c).Order("id ASC").Find(&sizes).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query product sizes", nil)
	}

	return ok(c, productDetail{Product: product, Images: images, Sizes: sizes})
}

type productPayload struct {
	ProductName string   `json:"product_name" form:"product_name"`
	Price       int64    `json:"price" form:"price"`
	Description string   `json:"description" form:"description"`
	CategoryId  int64    `json:"category_id,string" form:"category_id"`
	Stock       int      `json:"stock" form:"stock"`
	Images      []string `json:"images" form:"images"`
}

func (p *productPayload) validate() string {
	p.ProductName = strings.TrimSpace(p.ProductName)
	if p.ProductName == "" {
		return "Product name cannot be null"
	}
	if p.Price < 0 {
		return "Product price cannot be negative"
	}
	if len(p.Images) < 1 || len(p.Images) > 3 {
		return "Product requires between 1 and 3 images"
	}
	return ""
}

// createProduct inserts the product row and its image rows as one unit.
func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse product body", nil)
	}
	if msg := payload.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, "Error", msg, nil)
	}

	product := domain.Product{
		ID:          common.UUIDint64(),
		ProductName: payload.ProductName,
		Price:       payload.Price,
		Description: payload.Description,
		CategoryId:  payload.CategoryId,
		Stock:       payload.Stock,
	}

	var images []domain.ProductImage
	err := GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		for _, url := range payload.Images {
			img := domain.ProductImage{
				ID:        common.UUIDint64(),
				ProductId: product.ID,
				ImgUrl:    strings.TrimSpace(url),
			}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
			images = append(images, img)
		}
		return nil
	})
	if err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Product name already exists", nil)
		}
		if isNotNullViolation(err) {
			return fail(c, http.StatusBadRequest, "Error", "Product name cannot be null", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to create product", nil)
	}

	return created(c, productDetail{Product: product, Images: images})
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid product ID", nil)
	}

	var product domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&product).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Error", "Product does not exist", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to query product", nil)
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Unable to parse product body", nil)
	}
	payload.ProductName = strings.TrimSpace(payload.ProductName)
	if payload.ProductName == "" {
		return fail(c, http.StatusBadRequest, "Error", "Product name cannot be null", nil)
	}
	if len(payload.Images) > 3 {
		return fail(c, http.StatusBadRequest, "Error", "Product requires between 1 and 3 images", nil)
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"product_name": payload.ProductName,
			"price":        payload.Price,
			"description":  payload.Description,
			"category_id":  payload.CategoryId,
			"stock":        payload.Stock,
			"updated_at":   time.Now(),
		}
		if err := tx.Model(&domain.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		// images are replaced wholesale when supplied
		if len(payload.Images) > 0 {
			if err := tx.Where("product_id = ?", id).Delete(&domain.ProductImage{}).Error; err != nil {
				return err
			}
			for _, url := range payload.Images {
				img := domain.ProductImage{
					ID:        common.UUIDint64(),
					ProductId: id,
					ImgUrl:    strings.TrimSpace(url),
				}
				if err := tx.Create(&img).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if isDuplicateKey(err) {
			return fail(c, http.StatusBadRequest, "Error", "Product name already exists", nil)
		}
		return fail(c, http.StatusInternalServerError, "Error", "Failed to update product", nil)
	}

	GetDB(c).Where("id = ?", id).First(&product)
	return ok(c, product)
}

// deleteProduct removes the product and its image rows as one unit.
// Promos pointing at the product are removed as well so the catalog never
// carries dangling discounts. Order lines keep their snapshots.
func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Error", "Invalid product ID", nil)
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&domain.Promo{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Product{}).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Error", "Failed to delete product", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
