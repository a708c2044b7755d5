package stories

const insertStoryQuery = `
	INSERT INTO story (id, title, created_at, audio_url, transcript, panels)
	VALUES ($1, $2, $3, $4, $5, $6)
`

const getStoriesQuery = `
	SELECT id, title, created_at FROM story
	ORDER BY created_at DESC, id
`

const getSingleStoryQuery = `
	SELECT id, title, created_at, audio_url, transcript, panels
	FROM story
	WHERE id = $1
`
