package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/powermagic/shop/internal/domain/models"
)

// DefaultEpsilon — минимальный положительный остаток между накопленной
// суммой покупок пользователя и суммой его видимых заказов, при котором
// создаётся сверочный заказ. Порог чуть меньше цента отсекает шум
// плавающей точки из исторических данных.
var DefaultEpsilon = decimal.NewFromFloat(0.009)

// Исторические идентификаторы вида "user-12" / "user12" / "12"
var userSuffixRe = regexp.MustCompile(`(?i)(?:user[-_]?)?(\d+)$`)

// Reconciler сводит журнал заказов с накопленными суммами пользователей.
// Журнал может быть неполным: часть покупок делалась до появления учёта
// заказов и обновляла только счётчики пользователя. Недостающая выручка
// дополняется сверочными заказами, которые живут только в результатах
// отчётов и никогда не сохраняются.
type Reconciler struct {
	Epsilon decimal.Decimal

	now        func() time.Time // подменяются в тестах
	randSuffix func() string
}

// NewReconciler создаёт Reconciler с заданным порогом; нулевой порог
// заменяется на DefaultEpsilon.
func NewReconciler(epsilon decimal.Decimal) *Reconciler {
	if epsilon.IsZero() {
		epsilon = DefaultEpsilon
	}
	return &Reconciler{
		Epsilon:    epsilon,
		now:        time.Now,
		randSuffix: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:7] },
	}
}

// matcher — одно правило сопоставления заказа и пользователя.
// Правила чистые и проверяются строго по порядку, побеждает первое
// сработавшее; никакого скоринга нет.
type matcher func(order *models.Order, user *models.User) bool

var matchers = []matcher{
	matchByID,
	matchByIDSuffix,
	matchByEmail,
	matchByFullName,
	matchByNickname,
}

// точное совпадение идентификатора
func matchByID(order *models.Order, user *models.User) bool {
	return order.UserID == strconv.FormatInt(user.ID, 10)
}

// числовой суффикс вида "user-12"
func matchByIDSuffix(order *models.Order, user *models.User) bool {
	m := userSuffixRe.FindStringSubmatch(order.UserID)
	if m == nil {
		return false
	}
	return m[1] == strconv.FormatInt(user.ID, 10)
}

// email из адреса доставки
func matchByEmail(order *models.Order, user *models.User) bool {
	email := order.ShippingAddress.Email
	if email == "" || user.Email == "" {
		return false
	}
	return strings.EqualFold(email, user.Email)
}

// полное имя из адреса доставки
func matchByFullName(order *models.Order, user *models.User) bool {
	fullName := strings.TrimSpace(order.ShippingAddress.FullName)
	if fullName == "" || user.FullName == "" {
		return false
	}
	return strings.EqualFold(fullName, strings.TrimSpace(user.FullName))
}

// вхождение никнейма в сырой идентификатор заказа
func matchByNickname(order *models.Order, user *models.User) bool {
	if order.UserID == "" || user.Nickname == "" {
		return false
	}
	return strings.Contains(strings.ToLower(order.UserID), strings.ToLower(user.Nickname))
}

// resolveUserID определяет владельца заказа каскадом правил
func resolveUserID(order *models.Order, users []*models.User) (string, bool) {
	for _, match := range matchers {
		for _, user := range users {
			if match(order, user) {
				return strconv.FormatInt(user.ID, 10), true
			}
		}
	}
	return "", false
}

// Combine возвращает исходные заказы плюс сверочные заказы, так что сумма
// всех заказов каждого пользователя примерно равна его накопленной сумме
// покупок. На пользователя создаётся не более одного сверочного заказа;
// отрицательные и пренебрежимые расхождения не корректируются.
func (r *Reconciler) Combine(orders []*models.Order, users []*models.User) []*models.Order {
	combined := make([]*models.Order, len(orders), len(orders)+len(users))
	copy(combined, orders)

	// сумма сопоставленных заказов по каждому владельцу
	sums := make(map[string]decimal.Decimal)
	for _, order := range orders {
		key, ok := resolveUserID(order, users)
		if !ok {
			if order.UserID != "" {
				key = order.UserID
			} else {
				key = "unknown"
			}
		}
		sums[key] = sums[key].Add(order.Total)
	}

	for _, user := range users {
		userID := strconv.FormatInt(user.ID, 10)
		diff := user.TotalSpent.Sub(sums[userID]).Round(2)
		if !diff.GreaterThan(r.Epsilon) {
			continue
		}
		combined = append(combined, r.syntheticOrder(userID, user, diff))
	}
	return combined
}

// syntheticOrder собирает сверочный заказ на недостающую сумму
func (r *Reconciler) syntheticOrder(userID string, user *models.User, diff decimal.Decimal) *models.Order {
	createdAt := user.RegistrationDate
	if createdAt.IsZero() {
		createdAt = user.LastLogin
	}
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	return &models.Order{
		ID:            fmt.Sprintf("SYN-%s-%s", userID, r.randSuffix()),
		UserID:        userID,
		Items:         []models.OrderItem{},
		Subtotal:      diff,
		ShippingCost:  decimal.Zero,
		Total:         diff,
		StatusHistory: []models.OrderStatus{},
		CurrentStatus: models.OrderStatusConfirmed,
		CreatedAt:     createdAt,
		Synthetic:     true,
	}
}
