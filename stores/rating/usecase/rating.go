package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/curiomart/goapi/base/ctx"
	"github.com/curiomart/goapi/base/log"
	"github.com/curiomart/goapi/domain"
	"github.com/curiomart/goapi/domain/listing"
	"github.com/curiomart/goapi/domain/rating"
	"github.com/curiomart/goapi/service/cache"
)

type RatingUseCaseCfg struct {
	RatingRepo  rating.Repo
	ListingRepo listing.Repo
	ScoreCache  cache.Service
}

type impl struct {
	ratingRepo  rating.Repo
	listingRepo listing.Repo
	scoreCache  cache.Service
}

func New(cfg *RatingUseCaseCfg) rating.UseCase {
	return &impl{
		ratingRepo:  cfg.RatingRepo,
		listingRepo: cfg.ListingRepo,
		scoreCache:  cfg.ScoreCache,
	}
}

func (im *impl) Submit(c ctx.Ctx, raterId domain.UserId, listingId string, positive bool, comment string) (*rating.Rating, error) {
	l, err := im.listingRepo.FindOne(c, listingId)
	if err != nil {
		return nil, err
	}

	// only the winning buyer of a paid transaction may rate
	if l.Status != listing.StatusSold || l.PaymentStatus != listing.PaymentStatusPaid {
		return nil, domain.ErrInvalidState
	}
	if l.HighBidderId == nil || *l.HighBidderId != raterId {
		return nil, domain.ErrForbidden
	}

	if _, err := im.ratingRepo.FindOneByListingAndRater(c, listingId, raterId); err == nil {
		return nil, domain.ErrConflict
	} else if err != domain.ErrNotFound {
		return nil, err
	}

	r := &rating.Rating{
		Id:        uuid.NewString(),
		ListingId: listingId,
		RaterId:   raterId,
		SellerId:  l.SellerId,
		Positive:  positive,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	if err := im.ratingRepo.Insert(c, r); err != nil {
		c.WithFields(log.Fields{"err": err, "listingId": listingId}).Error("ratingRepo.Insert failed")
		return nil, err
	}

	if im.scoreCache == nil {
		return r, nil
	}
	if err := im.scoreCache.Del(c, l.SellerId.String()); err != nil {
		c.WithFields(log.Fields{"err": err, "sellerId": l.SellerId}).Warn("scoreCache.Del failed")
	}
	return r, nil
}

func (im *impl) ListBySeller(c ctx.Ctx, sellerId domain.UserId, offset, limit int32) ([]*rating.Rating, error) {
	res, err := im.ratingRepo.FindAll(c,
		rating.WithSellerId(sellerId),
		rating.WithPagination(offset, limit),
	)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "sellerId": sellerId}).Error("ratingRepo.FindAll failed")
		return nil, err
	}
	return res, nil
}

func (im *impl) GetSellerScore(c ctx.Ctx, sellerId domain.UserId) (*rating.SellerScore, error) {
	if im.scoreCache == nil {
		return im.computeSellerScore(c, sellerId)
	}

	score := &rating.SellerScore{}
	err := im.scoreCache.GetByFunc(c, sellerId.String(), score, func() (interface{}, error) {
		return im.computeSellerScore(c, sellerId)
	})
	if err != nil {
		return nil, err
	}
	return score, nil
}

func (im *impl) computeSellerScore(c ctx.Ctx, sellerId domain.UserId) (*rating.SellerScore, error) {
	total, err := im.ratingRepo.Count(c, rating.WithSellerId(sellerId))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "sellerId": sellerId}).Error("ratingRepo.Count failed")
		return nil, err
	}
	positive, err := im.ratingRepo.Count(c, rating.WithSellerId(sellerId), rating.WithPositive(true))
	if err != nil {
		c.WithFields(log.Fields{"err": err, "sellerId": sellerId}).Error("ratingRepo.Count failed")
		return nil, err
	}

	score := &rating.SellerScore{
		SellerId: sellerId,
		Total:    total,
		Positive: positive,
	}
	if total > 0 {
		score.PositivePercent = float64(positive) / float64(total) * 100
	}
	return score, nil
}
