package support

// Seed is the directory served at startup.
var Seed = []Org{
	{
		Name:         "LOCATEL Emergencias",
		Category:     CategoryEmergency,
		Phone:        "56-58-1111",
		Description:  "Ciudad de México - Emergencias",
		Region:       "Ciudad de México",
		Available24h: true,
	},
	{
		Name:         "911 Nacional",
		Category:     CategoryEmergency,
		Phone:        "911",
		Description:  "Nacional - Emergencias",
		Region:       "Nacional",
		Available24h: true,
	},
	{
		Name:        "CAVI CDMX",
		Category:    CategoryGovernment,
		Phone:       "555-533-5533",
		Description: "Ciudad de México - Atención a víctimas",
		Region:      "Ciudad de México",
	},
	{
		Name:         "Instituto Nacional de las Mujeres",
		Category:     CategoryGovernment,
		Phone:        "01-800-911-2511",
		Description:  "Nacional - Apoyo integral",
		Region:       "Nacional",
		Available24h: true,
	},
	{
		Name:         "Red Nacional de Refugios",
		Category:     CategoryNGO,
		Phone:        "01-800-822-4460",
		Description:  "Nacional - Refugios seguros",
		Region:       "Nacional",
		Website:      "https://rednacionalderefugios.org.mx",
		Available24h: true,
	},
	{
		Name:        "Fundación Origen",
		Category:    CategoryNGO,
		Phone:       "555-207-8058",
		Description: "Nacional - Apoyo psicológico",
		Region:      "Nacional",
	},
	{
		Name:        "Defensoría Pública",
		Category:    CategoryLegal,
		Phone:       "555-627-1700",
		Description: "Ciudad de México - Asesoría gratuita",
		Region:      "Ciudad de México",
	},
	{
		Name:         "SAPTEL",
		Category:     CategoryPsychological,
		Phone:        "01-800-472-7835",
		Description:  "Nacional - Crisis emocional",
		Region:       "Nacional",
		Available24h: true,
	},
}
