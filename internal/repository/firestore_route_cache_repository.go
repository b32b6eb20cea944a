package repository

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"EcoRoute-App/internal/domain/model"
	domainrepo "EcoRoute-App/internal/domain/repository"
)

const routeCacheTTLHours = 24

// FirestoreRouteCacheRepository Firestoreを使用した計算済みルートのキャッシュリポジトリ
type FirestoreRouteCacheRepository struct {
	client *firestore.Client
	logger *logrus.Logger
}

// NewFirestoreRouteCacheRepository 新しいFirestoreRouteCacheRepositoryインスタンスを作成
func NewFirestoreRouteCacheRepository(client *firestore.Client, logger *logrus.Logger) domainrepo.RouteCacheRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &FirestoreRouteCacheRepository{
		client: client,
		logger: logger,
	}
}

// SaveRoute は計算済みルートをTTL付きでFirestoreに保存し、キャッシュIDを返す
func (r *FirestoreRouteCacheRepository) SaveRoute(ctx context.Context, route *model.Route) (string, error) {
	cacheID := fmt.Sprintf("route_%s", uuid.New().String())

	firestoreData := route.ToFirestoreRoute(routeCacheTTLHours)
	_, err := r.client.Collection("cachedRoutes").Doc(cacheID).Set(ctx, firestoreData)
	if err != nil {
		r.logger.WithError(err).WithField("cache_id", cacheID).Error("❌ ルートキャッシュ保存失敗")
		return "", fmt.Errorf("ルートの保存に失敗しました: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"cache_id":  cacheID,
		"ttl_hours": routeCacheTTLHours,
	}).Info("✅ ルートをキャッシュに保存")
	return cacheID, nil
}

// GetRoute は指定IDのルートをFirestoreから取得する
func (r *FirestoreRouteCacheRepository) GetRoute(ctx context.Context, routeID string) (*model.Route, error) {
	doc, err := r.client.Collection("cachedRoutes").Doc(routeID).Get(ctx)
	if err != nil {
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil, fmt.Errorf("ルートが見つかりません（有効期限切れまたは無効なID）: %s", routeID)
		}
		return nil, fmt.Errorf("ルートの取得に失敗しました: %w", err)
	}

	var firestoreData model.FirestoreRoute
	if err := doc.DataTo(&firestoreData); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}

	return firestoreData.ToRoute(routeID), nil
}

// DeleteRoute は指定IDのキャッシュ済みルートを削除する
func (r *FirestoreRouteCacheRepository) DeleteRoute(ctx context.Context, routeID string) error {
	_, err := r.client.Collection("cachedRoutes").Doc(routeID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("ルートの削除に失敗しました: %w", err)
	}
	return nil
}
