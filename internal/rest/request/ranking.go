package request

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Guyuepp/Go-Clean-Architecture-Novel/domain"
)

// RankingQuery is bound from the query string. Fields stay strings so that
// a malformed number is reported against its own parameter.
type RankingQuery struct {
	SortType   string `form:"sortType" validate:"omitempty,oneof=vote view rating updated"`
	TimeRange  string `form:"timeRange" validate:"omitempty,oneof=daily weekly monthly all"`
	CategoryID string `form:"categoryId" validate:"omitempty,number"`
	Page       string `form:"page" validate:"omitempty,number"`
	PageSize   string `form:"pageSize" validate:"omitempty,number"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误信息里使用查询参数名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ToDomain validates the raw parameters and applies defaults.
// Errors are *domain.InvalidQueryError naming the offending parameter.
func (r *RankingQuery) ToDomain() (domain.RankingQuery, error) {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return domain.RankingQuery{}, domain.NewInvalidQueryError(fe.Field(), describe(fe))
		}
		return domain.RankingQuery{}, domain.NewInvalidQueryError("query", err.Error())
	}

	sortType, err := domain.ParseSortType(r.SortType)
	if err != nil {
		return domain.RankingQuery{}, err
	}
	timeRange, err := domain.ParseTimeRange(r.TimeRange)
	if err != nil {
		return domain.RankingQuery{}, err
	}
	q := domain.RankingQuery{
		SortType:  sortType,
		TimeRange: timeRange,
		Page:      domain.DefaultRankPage,
		PageSize:  domain.DefaultRankPageSize,
	}

	if r.Page != "" {
		if q.Page, err = strconv.Atoi(r.Page); err != nil {
			return domain.RankingQuery{}, domain.NewInvalidQueryError("page", "not a valid integer")
		}
	}
	if r.PageSize != "" {
		if q.PageSize, err = strconv.Atoi(r.PageSize); err != nil {
			return domain.RankingQuery{}, domain.NewInvalidQueryError("pageSize", "not a valid integer")
		}
	}
	if r.CategoryID != "" {
		id, err := strconv.ParseInt(r.CategoryID, 10, 64)
		if err != nil {
			return domain.RankingQuery{}, domain.NewInvalidQueryError("categoryId", "not a valid id")
		}
		q.CategoryID = &id
	}
	return q, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of: " + fe.Param()
	case "number":
		return "must be a non-negative integer"
	default:
		return "failed on " + fe.Tag()
	}
}
