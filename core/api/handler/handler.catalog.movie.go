package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"movie_review/core/api/dto"
	models "movie_review/core/api/models/mongodb"
	"movie_review/core/api/services"
	"movie_review/core/common"
)

// MovieHandler xử lý các request liên quan đến phim
type MovieHandler struct {
	*BaseHandler[models.Movie, dto.MovieCreateInput, dto.MovieUpdateInput]
	movieService  *services.MovieService
	ratingService *services.RatingService
}

// movieListItem là shape công khai của một phim trong danh sách
// (related, top-rated, search-public). Chỉ gồm các field dành cho người xem;
// tuyệt đối không lộ public ID trên gateway, trạng thái hay metadata nội bộ.
type movieListItem struct {
	ID                primitive.ObjectID   `json:"id"`
	Title             string               `json:"title"`
	Poster            string               `json:"poster,omitempty"`
	ResponsivePosters []string             `json:"responsivePosters,omitempty"`
	Reviews           models.RatingSummary `json:"reviews"`
}

// movieDetail là shape công khai của trang chi tiết phim.
// Media chỉ trả về URL, không kèm public ID trên gateway.
type movieDetail struct {
	ID          primitive.ObjectID   `json:"id"`
	Title       string               `json:"title"`
	StoryLine   string               `json:"storyLine"`
	Director    string               `json:"director,omitempty"`
	ReleaseDate string               `json:"releaseDate"`
	Type        string               `json:"type"`
	Genres      []string             `json:"genres"`
	Tags        []string             `json:"tags"`
	Language    string               `json:"language"`
	Cast        []models.CastMember  `json:"cast"`
	Writers     []primitive.ObjectID `json:"writers,omitempty"`
	Poster      string               `json:"poster,omitempty"`
	Trailer     string               `json:"trailer"`
	Reviews     models.RatingSummary `json:"reviews"`
}

// toMovieListItem rút gọn model Movie về shape danh sách công khai
func toMovieListItem(movie models.Movie, summary models.RatingSummary) movieListItem {
	item := movieListItem{
		ID:      movie.ID,
		Title:   movie.Title,
		Reviews: summary,
	}
	if movie.Poster != nil {
		item.Poster = movie.Poster.URL
		item.ResponsivePosters = movie.Poster.Responsive
	}
	return item
}

// toMovieDetail rút gọn model Movie về shape chi tiết công khai
func toMovieDetail(movie models.Movie, summary models.RatingSummary) movieDetail {
	detail := movieDetail{
		ID:          movie.ID,
		Title:       movie.Title,
		StoryLine:   movie.StoryLine,
		ReleaseDate: movie.ReleaseDate,
		Type:        movie.Type,
		Genres:      movie.Genres,
		Tags:        movie.Tags,
		Language:    movie.Language,
		Cast:        movie.Cast,
		Writers:     movie.Writers,
		Trailer:     movie.Trailer.URL,
		Reviews:     summary,
	}
	if movie.Director != nil {
		detail.Director = movie.Director.Hex()
	}
	if movie.Poster != nil {
		detail.Poster = movie.Poster.URL
	}
	return detail
}

// NewMovieHandler tạo một instance mới của MovieHandler
func NewMovieHandler() (*MovieHandler, error) {
	movieService, err := services.NewMovieService()
	if err != nil {
		return nil, fmt.Errorf("failed to create movie service: %v", err)
	}

	ratingService, err := services.NewRatingService()
	if err != nil {
		return nil, fmt.Errorf("failed to create rating service: %v", err)
	}

	return &MovieHandler{
		BaseHandler:   NewBaseHandler[models.Movie, dto.MovieCreateInput, dto.MovieUpdateInput](movieService),
		movieService:  movieService,
		ratingService: ratingService,
	}, nil
}

// parseJSONFormField giải mã một form value chứa JSON array (genres, tags, cast, writers)
func parseJSONFormField(c fiber.Ctx, fieldName string, target interface{}) error {
	raw := c.FormValue(fieldName)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Field %q không phải JSON hợp lệ", fieldName),
			common.StatusBadRequest,
			err.Error(),
		)
	}
	return nil
}

// parseMovieCreateForm đọc MovieCreateInput từ multipart form.
// Các field dạng mảng được gửi lên dưới dạng chuỗi JSON.
func parseMovieCreateForm(c fiber.Ctx) (*dto.MovieCreateInput, error) {
	input := &dto.MovieCreateInput{
		Title:       c.FormValue("title"),
		StoryLine:   c.FormValue("storyLine"),
		Director:    c.FormValue("director"),
		ReleaseDate: c.FormValue("releaseDate"),
		Status:      c.FormValue("status"),
		Type:        c.FormValue("type"),
		TrailerURL:  c.FormValue("trailerUrl"),
		TrailerID:   c.FormValue("trailerId"),
		Language:    c.FormValue("language"),
	}

	if err := parseJSONFormField(c, "genres", &input.Genres); err != nil {
		return nil, err
	}
	if err := parseJSONFormField(c, "tags", &input.Tags); err != nil {
		return nil, err
	}
	if err := parseJSONFormField(c, "cast", &input.Cast); err != nil {
		return nil, err
	}
	if err := parseJSONFormField(c, "writers", &input.Writers); err != nil {
		return nil, err
	}
	return input, nil
}

// parseMovieUpdateForm đọc MovieUpdateInput từ multipart form.
// Form value rỗng được coi là không gửi field đó.
func parseMovieUpdateForm(c fiber.Ctx) (*dto.MovieUpdateInput, error) {
	input := &dto.MovieUpdateInput{}

	setIfPresent := func(fieldName string, target **string) {
		if value := c.FormValue(fieldName); value != "" {
			*target = &value
		}
	}
	setIfPresent("title", &input.Title)
	setIfPresent("storyLine", &input.StoryLine)
	setIfPresent("director", &input.Director)
	setIfPresent("releaseDate", &input.ReleaseDate)
	setIfPresent("status", &input.Status)
	setIfPresent("type", &input.Type)
	setIfPresent("language", &input.Language)

	if raw := c.FormValue("genres"); raw != "" {
		var genres []string
		if err := parseJSONFormField(c, "genres", &genres); err != nil {
			return nil, err
		}
		input.Genres = &genres
	}
	if raw := c.FormValue("tags"); raw != "" {
		var tags []string
		if err := parseJSONFormField(c, "tags", &tags); err != nil {
			return nil, err
		}
		input.Tags = &tags
	}
	if raw := c.FormValue("cast"); raw != "" {
		var cast []dto.CastMemberInput
		if err := parseJSONFormField(c, "cast", &cast); err != nil {
			return nil, err
		}
		input.Cast = &cast
	}
	if raw := c.FormValue("writers"); raw != "" {
		var writers []string
		if err := parseJSONFormField(c, "writers", &writers); err != nil {
			return nil, err
		}
		input.Writers = &writers
	}
	return input, nil
}

// HandleCreate tạo phim mới từ multipart form, poster là file tùy chọn.
// Trailer phải được upload trước qua endpoint upload-trailer.
func (h *MovieHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		input, err := parseMovieCreateForm(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var posterReader io.Reader
		var posterName string
		if fileHeader, err := c.FormFile("poster"); err == nil {
			if err := validateImageUpload(fileHeader); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			file, name, err := openUploadedFile(c, "poster")
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			defer file.Close()
			posterReader = file
			posterName = name
		}

		movie, err := h.movieService.CreateWithPoster(c.Context(), input, posterReader, posterName)
		h.HandleResponse(c, movie, err)
		return nil
	})
}

// HandleUpdate cập nhật phim, poster mới (nếu có) thay thế poster cũ
func (h *MovieHandler) HandleUpdate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		input, err := parseMovieUpdateForm(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.validateInput(input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var posterReader io.Reader
		var posterName string
		if fileHeader, err := c.FormFile("poster"); err == nil {
			if err := validateImageUpload(fileHeader); err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			file, name, err := openUploadedFile(c, "poster")
			if err != nil {
				h.HandleResponse(c, nil, err)
				return nil
			}
			defer file.Close()
			posterReader = file
			posterName = name
		}

		movie, err := h.movieService.UpdateWithPoster(c.Context(), id, input, posterReader, posterName)
		h.HandleResponse(c, movie, err)
		return nil
	})
}

// HandleDelete xóa phim cùng toàn bộ media và review liên quan
func (h *MovieHandler) HandleDelete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.movieService.DeleteMovie(c.Context(), id)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{"message": "Phim đã được xóa thành công"}, nil)
		return nil
	})
}

// HandleUploadTrailer upload video trailer lên media gateway trước khi tạo phim
func (h *MovieHandler) HandleUploadTrailer(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		fileHeader, err := c.FormFile("trailer")
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Thiếu file trailer trong form",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "video/") {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"File trailer phải là video",
				common.StatusBadRequest,
				contentType,
			))
			return nil
		}

		file, err := fileHeader.Open()
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				"Không thể đọc file tải lên",
				common.StatusBadRequest,
				err.Error(),
			))
			return nil
		}
		defer file.Close()

		result, err := h.movieService.UploadTrailer(c.Context(), file, fileHeader.Filename)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, fiber.Map{
			"url":      result.URL,
			"publicId": result.PublicID,
		}, nil)
		return nil
	})
}

// HandleGetSingle trả về chi tiết phim kèm thống kê đánh giá
func (h *MovieHandler) HandleGetSingle(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		movie, err := h.movieService.FindOneById(c.Context(), id)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		summary, err := h.ratingService.AverageRatings(c.Context(), movie.ID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, toMovieDetail(movie, summary), nil)
		return nil
	})
}

// HandleRelated trả về các phim công khai có tag trùng với phim hiện tại
func (h *MovieHandler) HandleRelated(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.GetIDFromContext(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		movies, err := h.movieService.RelatedMovies(c.Context(), id)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.attachRatings(c, movies)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleTopRated trả về các phim công khai có điểm đánh giá cao nhất theo thể loại phát hành
func (h *MovieHandler) HandleTopRated(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		movieType := c.Query("type")

		movies, err := h.movieService.TopRatedMovies(c.Context(), movieType)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.attachRatings(c, movies)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// HandleSearchPublic tìm phim công khai theo tiêu đề, dành cho người dùng thường
func (h *MovieHandler) HandleSearchPublic(c fiber.Ctx) error {
	return h.handleSearch(c, true)
}

// HandleSearchAdmin tìm phim theo tiêu đề không giới hạn trạng thái, dành cho admin
func (h *MovieHandler) HandleSearchAdmin(c fiber.Ctx) error {
	return h.handleSearch(c, false)
}

func (h *MovieHandler) handleSearch(c fiber.Ctx, publicOnly bool) error {
	return h.SafeHandler(c, func() error {
		title := strings.TrimSpace(c.Query("title"))
		if title == "" {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationInput,
				"Câu truy vấn không hợp lệ",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		movies, err := h.movieService.SearchMovies(c.Context(), title, publicOnly)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if publicOnly {
			data, err := h.attachRatings(c, movies)
			h.HandleResponse(c, data, err)
			return nil
		}

		h.HandleResponse(c, movies, nil)
		return nil
	})
}

// HandleLatestUploads trả về các phim công khai mới được thêm gần đây
func (h *MovieHandler) HandleLatestUploads(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var limit int64
		if rawLimit := c.Query("limit"); rawLimit != "" {
			if l, err := strconv.ParseInt(rawLimit, 10, 64); err == nil && l > 0 && l <= 50 {
				limit = l
			}
		}

		movies, err := h.movieService.LatestUploads(c.Context(), limit)
		h.HandleResponse(c, movies, err)
		return nil
	})
}

// buildMovieListItems ghép từng phim với thống kê đánh giá tương ứng
// thành shape danh sách công khai
func buildMovieListItems(movies []models.Movie, summaries []models.RatingSummary) []movieListItem {
	result := make([]movieListItem, len(movies))
	for i, movie := range movies {
		result[i] = toMovieListItem(movie, summaries[i])
	}
	return result
}

// attachRatings gắn thống kê đánh giá cho từng phim trong danh sách
func (h *MovieHandler) attachRatings(c fiber.Ctx, movies []models.Movie) ([]movieListItem, error) {
	movieIDs := make([]primitive.ObjectID, len(movies))
	for i, movie := range movies {
		movieIDs[i] = movie.ID
	}

	summaries, err := h.ratingService.AverageRatingsForMovies(c.Context(), movieIDs)
	if err != nil {
		return nil, err
	}

	return buildMovieListItems(movies, summaries), nil
}
