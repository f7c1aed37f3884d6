package store

import "github.com/user/tubevibes/internal/model"

// SeedVideos returns the sample catalog loaded at startup
func SeedVideos() []model.Video {
	return []model.Video{
		{
			ID:           "1",
			Title:        "Introduction to React",
			Description:  "Learn the basics of React in this tutorial",
			ThumbnailURL: "https://i.ytimg.com/vi/w7ejDZ8SWv8/maxresdefault.jpg",
			VideoURL:     "https://www.w3schools.com/html/mov_bbb.mp4",
			UploadDate:   "2023-04-15",
			Views:        1542,
			Duration:     "10:15",
		},
		{
			ID:           "2",
			Title:        "Advanced CSS Techniques",
			Description:  "Master advanced CSS and create beautiful web designs",
			ThumbnailURL: "https://i.ytimg.com/vi/1Rs2ND1ryYc/maxresdefault.jpg",
			VideoURL:     "https://www.w3schools.com/html/movie.mp4",
			UploadDate:   "2023-03-22",
			Views:        982,
			Duration:     "15:42",
		},
		{
			ID:           "3",
			Title:        "JavaScript ES6 Features",
			Description:  "Discover the power of modern JavaScript features",
			ThumbnailURL: "https://i.ytimg.com/vi/NCwa_xi0Uuc/maxresdefault.jpg",
			VideoURL:     "https://www.w3schools.com/html/mov_bbb.mp4",
			UploadDate:   "2023-05-01",
			Views:        2103,
			Duration:     "12:30",
		},
		{
			ID:           "4",
			Title:        "Building a Full Stack Application",
			Description:  "Create a complete web application from scratch",
			ThumbnailURL: "https://i.ytimg.com/vi/5PdEmeopJVQ/maxresdefault.jpg",
			VideoURL:     "https://www.w3schools.com/html/movie.mp4",
			UploadDate:   "2023-04-08",
			Views:        1287,
			Duration:     "25:18",
		},
		{
			ID:           "5",
			Title:        "Responsive Web Design Fundamentals",
			Description:  "Learn how to make your websites work on any device",
			ThumbnailURL: "https://i.ytimg.com/vi/srvUrASNj0s/maxresdefault.jpg",
			VideoURL:     "https://www.w3schools.com/html/mov_bbb.mp4",
			UploadDate:   "2023-03-15",
			Views:        1876,
			Duration:     "18:45",
		},
		{
			ID:           "6",
			Title:        "Node.js Crash Course",
			Description:  "Get started with server-side JavaScript using Node.js",
			ThumbnailURL: "https://i.ytimg.com/vi/fBNz5xF-Kx4/maxresdefault.jpg",
			VideoURL:     "https://www.w3schools.com/html/movie.mp4",
			UploadDate:   "2023-05-10",
			Views:        932,
			Duration:     "22:10",
		},
	}
}
