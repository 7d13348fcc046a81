package repository

import (
	"errors"

	"workbench/internal/models"

	"gorm.io/gorm"
)

// PostRepository is the sqlite-backed PostStore.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *PostRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Post{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostRepository) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) FindBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) FindPage(page, pageSize int) ([]models.Post, error) {
	var posts []models.Post
	offset := (page - 1) * pageSize
	err := r.db.Order("created_at desc, id desc").Offset(offset).Limit(pageSize).Find(&posts).Error
	return posts, err
}

func (r *PostRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *PostRepository) FindPageByAdmin(page, pageSize int, query string) ([]models.Post, error) {
	var posts []models.Post
	dbQuery := r.db.Order("created_at desc, id desc")
	if query != "" {
		dbQuery = dbQuery.Where("title LIKE ?", "%"+query+"%")
	}
	offset := (page - 1) * pageSize
	err := dbQuery.Offset(offset).Limit(pageSize).Find(&posts).Error
	return posts, err
}

func (r *PostRepository) CountByAdmin(query string) (int64, error) {
	var count int64
	dbQuery := r.db.Model(&models.Post{})
	if query != "" {
		dbQuery = dbQuery.Where("title LIKE ?", "%"+query+"%")
	}
	err := dbQuery.Count(&count).Error
	return count, err
}

func (r *PostRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostRepository) SlugExistsForOtherPost(slug string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("slug = ? AND id != ?", slug, id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostRepository) FindAllForBackup() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Order("id asc").Find(&posts).Error
	return posts, err
}
