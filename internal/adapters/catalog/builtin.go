package catalog

import "github.com/ccsustmap/campusmap/internal/core/domain"

func place(id, name string, lat, lon float64, campus domain.Campus, cat domain.Category) domain.Place {
	return domain.Place{
		ID:       id,
		Name:     name,
		Location: domain.GeoPoint{Lat: lat, Lon: lon},
		Campus:   campus,
		Category: cat,
	}
}

// BuiltinPlaces is the sample catalog shipped with the binary.
func BuiltinPlaces() []domain.Place {
	jpl, yt := domain.CampusJinpenling, domain.CampusYuntang
	return []domain.Place{
		place("jpl-gate-east", "金盆岭东门", 28.1558, 112.9798, jpl, domain.CategoryGate),
		place("jpl-teaching-1", "第一教学楼", 28.1566, 112.9772, jpl, domain.CategoryTeaching),
		place("jpl-teaching-2", "第二教学楼", 28.1571, 112.9781, jpl, domain.CategoryTeaching),
		place("jpl-library", "金盆岭图书馆", 28.1553, 112.9768, jpl, domain.CategoryLibrary),
		place("jpl-canteen-1", "第一食堂", 28.1545, 112.9759, jpl, domain.CategoryDining),
		place("jpl-dorm-south", "南苑学生公寓", 28.1538, 112.9750, jpl, domain.CategoryDormitory),
		place("jpl-stadium", "金盆岭体育场", 28.1579, 112.9752, jpl, domain.CategorySports),
		place("jpl-service-hall", "校园服务中心", 28.1561, 112.9789, jpl, domain.CategoryService),

		place("yt-gate-north", "云塘北门", 28.0702, 113.0091, yt, domain.CategoryGate),
		place("yt-gate-south", "云塘南门", 28.0631, 113.0103, yt, domain.CategoryGate),
		place("yt-teaching-a", "云塘教学楼A座", 28.0675, 113.0080, yt, domain.CategoryTeaching),
		place("yt-teaching-b", "云塘教学楼B座", 28.0680, 113.0091, yt, domain.CategoryTeaching),
		place("yt-library", "云塘图书馆", 28.0669, 113.0099, yt, domain.CategoryLibrary),
		place("yt-canteen-1", "云塘第一食堂", 28.0655, 113.0109, yt, domain.CategoryDining),
		place("yt-canteen-2", "云塘第二食堂", 28.0689, 113.0117, yt, domain.CategoryDining),
		place("yt-dorm-10", "学生公寓10栋", 28.0648, 113.0121, yt, domain.CategoryDormitory),
		place("yt-gym", "云塘体育馆", 28.0661, 113.0074, yt, domain.CategorySports),
		place("yt-hospital", "校医院", 28.0693, 113.0102, yt, domain.CategoryService),
	}
}

// Builtin returns a catalog over BuiltinPlaces.
func Builtin() *Catalog {
	c, err := New(BuiltinPlaces())
	if err != nil {
		panic("catalog: invalid builtin places: " + err.Error())
	}
	return c
}
